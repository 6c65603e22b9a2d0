package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
// Depot and customer rows carry an idx column holding the entity's position
// in the source file.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createInstancesQuery := `
	CREATE TABLE IF NOT EXISTS instances (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		fingerprint TEXT NOT NULL UNIQUE,
		loaded_at TIMESTAMPTZ NOT NULL,
		max_vehicles_per_depot INTEGER NOT NULL,
		num_depots INTEGER NOT NULL,
		num_customers INTEGER NOT NULL,
		total_demand BIGINT NOT NULL,
		total_capacity BIGINT NOT NULL
	);
	`

	createDepotsQuery := `
	CREATE TABLE IF NOT EXISTS instance_depots (
		instance_id UUID NOT NULL REFERENCES instances(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		max_vehicles INTEGER NOT NULL,
		max_route_duration INTEGER NOT NULL,
		max_load INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		PRIMARY KEY (instance_id, idx)
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS instance_customers (
		instance_id UUID NOT NULL REFERENCES instances(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		service_duration INTEGER NOT NULL,
		demand INTEGER NOT NULL,
		PRIMARY KEY (instance_id, idx)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_instances_loaded_at
	ON instances(loaded_at);
	`

	statements := []string{
		createInstancesQuery,
		createDepotsQuery,
		createCustomersQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
