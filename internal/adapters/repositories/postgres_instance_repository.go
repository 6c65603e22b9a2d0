package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/platform/obs"
	"mdvrp-service/internal/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Postgres-backed implementation of the InstanceRepository port.
type PostgresInstanceRepository struct{ DB *sql.DB }

func NewPostgresInstanceRepository(db *sql.DB) *PostgresInstanceRepository {
	return &PostgresInstanceRepository{DB: db}
}

// Store the record, its depots and its customers in one transaction.
func (s *PostgresInstanceRepository) Save(ctx context.Context, rec *domain.InstanceRecord) (err error) {
	defer obs.Time(ctx, "instance.repo.Save")(&err)

	if s.DB == nil {
		return errors.New("postgres instance repository: DB is nil")
	}
	if rec == nil || rec.Instance == nil {
		return errors.New("save instance: record and instance must be non-nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save instance: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO instances (
		id,
		name,
		fingerprint,
		loaded_at,
		max_vehicles_per_depot,
		num_depots,
		num_customers,
		total_demand,
		total_capacity
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		rec.ID, rec.Name, rec.Fingerprint, rec.LoadedAt,
		rec.Instance.MaxVehiclesPerDepot,
		rec.Summary.NumDepots, rec.Summary.NumCustomers,
		rec.Summary.TotalDemand, rec.Summary.TotalCapacity,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("save instance fingerprint=%s: %w", rec.Fingerprint, ports.ErrInstanceExists)
		}
		return fmt.Errorf("save instance: insert instances row: %w", err)
	}

	depotStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO instance_depots (instance_id, idx, max_vehicles, max_route_duration, max_load, x, y)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`)
	if err != nil {
		return fmt.Errorf("save instance: prepare depot insert: %w", err)
	}
	defer depotStmt.Close()

	for i, d := range rec.Instance.Depots {
		if _, err := depotStmt.ExecContext(ctx, rec.ID, i, d.MaxVehicles, d.MaxRouteDuration, d.MaxLoad, d.X, d.Y); err != nil {
			return fmt.Errorf("save instance: insert depot idx=%d: %w", i, err)
		}
	}

	customerStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO instance_customers (instance_id, idx, x, y, service_duration, demand)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("save instance: prepare customer insert: %w", err)
	}
	defer customerStmt.Close()

	for i, c := range rec.Instance.Customers {
		if _, err := customerStmt.ExecContext(ctx, rec.ID, i, c.X, c.Y, c.ServiceDuration, c.Demand); err != nil {
			return fmt.Errorf("save instance: insert customer idx=%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save instance: commit tx: %w", err)
	}

	return nil
}

const selectInstanceColumns = `
	SELECT
		id,
		name,
		fingerprint,
		loaded_at,
		max_vehicles_per_depot,
		num_depots,
		num_customers,
		total_demand,
		total_capacity
	FROM instances
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.InstanceRecord, error) {
	var rec domain.InstanceRecord
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Fingerprint,
		&rec.LoadedAt,
		&rec.Summary.MaxVehiclesPerDepot,
		&rec.Summary.NumDepots,
		&rec.Summary.NumCustomers,
		&rec.Summary.TotalDemand,
		&rec.Summary.TotalCapacity,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresInstanceRepository) Get(ctx context.Context, id uuid.UUID) (_ *domain.InstanceRecord, err error) {
	defer obs.Time(ctx, "instance.repo.Get")(&err)

	return s.getOne(ctx, "get instance id="+id.String(), selectInstanceColumns+` WHERE id = $1;`, id)
}

func (s *PostgresInstanceRepository) GetByFingerprint(ctx context.Context, fingerprint string) (_ *domain.InstanceRecord, err error) {
	defer obs.Time(ctx, "instance.repo.GetByFingerprint")(&err)

	return s.getOne(ctx, "get instance fingerprint="+fingerprint, selectInstanceColumns+` WHERE fingerprint = $1;`, fingerprint)
}

func (s *PostgresInstanceRepository) getOne(ctx context.Context, op, query string, arg any) (*domain.InstanceRecord, error) {
	if s.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ports.ErrInstanceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scan instances row: %w", op, err)
	}

	inst, err := s.loadInstance(ctx, rec.ID, rec.Summary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rec.Instance = inst

	return rec, nil
}

// loadInstance reads depots and customers back in file order.
func (s *PostgresInstanceRepository) loadInstance(ctx context.Context, id uuid.UUID, summary domain.InstanceSummary) (*domain.ProblemInstance, error) {
	inst := &domain.ProblemInstance{
		MaxVehiclesPerDepot: summary.MaxVehiclesPerDepot,
		Depots:              make([]domain.Depot, 0, summary.NumDepots),
		Customers:           make([]domain.Customer, 0, summary.NumCustomers),
	}

	depotRows, err := s.DB.QueryContext(ctx, `
	SELECT max_vehicles, max_route_duration, max_load, x, y
	FROM instance_depots
	WHERE instance_id = $1
	ORDER BY idx;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query instance_depots table: %w", err)
	}
	defer depotRows.Close()

	for depotRows.Next() {
		var d domain.Depot
		if err := depotRows.Scan(&d.MaxVehicles, &d.MaxRouteDuration, &d.MaxLoad, &d.X, &d.Y); err != nil {
			return nil, fmt.Errorf("scan depot row: %w", err)
		}
		inst.Depots = append(inst.Depots, d)
	}
	if err := depotRows.Err(); err != nil {
		return nil, fmt.Errorf("depot row iteration: %w", err)
	}

	customerRows, err := s.DB.QueryContext(ctx, `
	SELECT x, y, service_duration, demand
	FROM instance_customers
	WHERE instance_id = $1
	ORDER BY idx;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query instance_customers table: %w", err)
	}
	defer customerRows.Close()

	for customerRows.Next() {
		var c domain.Customer
		if err := customerRows.Scan(&c.X, &c.Y, &c.ServiceDuration, &c.Demand); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		inst.Customers = append(inst.Customers, c)
	}
	if err := customerRows.Err(); err != nil {
		return nil, fmt.Errorf("customer row iteration: %w", err)
	}

	return inst, nil
}

// Return all records ordered by load time, without depots and customers.
func (s *PostgresInstanceRepository) List(ctx context.Context) (_ []*domain.InstanceRecord, err error) {
	defer obs.Time(ctx, "instance.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, selectInstanceColumns+` ORDER BY loaded_at, id;`)
	if err != nil {
		return nil, fmt.Errorf("list instances: query instances table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.InstanceRecord, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list instances: scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list instances: row iteration: %w", err)
	}

	return records, nil
}
