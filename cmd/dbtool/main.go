package main

import (
	"context"
	"log/slog"
	"mdvrp-service/internal/adapters/repositories"
	"mdvrp-service/internal/config"
	"mdvrp-service/internal/loader"
	"mdvrp-service/internal/platform/db"
	"mdvrp-service/internal/services"
	"os"
	"strings"
)

// dbtool creates the schema and imports every instance file in SEED_DIR.
func main() {
	if !config.LoadDotEnv() {
		slog.Info("no .env file found (using environment variables)")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Error("open database failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logger.Error("schema initialization failed", "error", err)
		os.Exit(1)
	}
	logger.Info("schema ready")

	seedDir := config.Get("SEED_DIR", "data")
	svc := services.NewInstanceService(
		loader.New(logger),
		repositories.NewPostgresInstanceRepository(conn),
		nil,
		logger,
	)

	logger.Info("importing instances", "dir", seedDir)
	records, err := svc.ImportDir(ctx, seedDir)
	if err != nil {
		logger.Error("some instances failed to import", "imported", len(records), "error", err)
		os.Exit(1)
	}
	logger.Info("import complete", "imported", len(records))
}
