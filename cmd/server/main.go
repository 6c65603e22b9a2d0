package main

import (
	"context"
	"errors"
	"log/slog"
	"mdvrp-service/internal/adapters/cache"
	"mdvrp-service/internal/adapters/repositories"
	"mdvrp-service/internal/api"
	"mdvrp-service/internal/config"
	"mdvrp-service/internal/loader"
	"mdvrp-service/internal/platform/db"
	"mdvrp-service/internal/ports"
	"mdvrp-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis) behind ports and starts the HTTP server.
func main() {
	if !config.LoadDotEnv() {
		slog.Info("no .env file found (using environment variables)")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo ports.InstanceRepository
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			logger.Error("failed to initialize schema", "error", err)
			os.Exit(1)
		}
		repo = repositories.NewPostgresInstanceRepository(conn)
	} else {
		logger.Warn("DATABASE_URL not set, instances are kept in memory")
		repo = repositories.NewMemoryInstanceRepository()
	}

	// A nil *RedisInstanceCache must not end up inside the interface.
	var instanceCache ports.InstanceCache
	if cfg.RedisEnabled {
		rc, err := cache.NewRedisInstanceCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rc.Close()
			instanceCache = rc
		}
	}

	svc := services.NewInstanceService(loader.New(logger), repo, instanceCache, logger)
	router := api.NewRouter(svc, cfg.DataDir)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "data_dir", cfg.DataDir, "cache", instanceCache != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
