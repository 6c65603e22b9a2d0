package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "DATA_DIR", "DATABASE_URL", "REDIS_ENABLED", "REDIS_DB", "CACHE_TTL", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATA_DIR", "/srv/instances")
	t.Setenv("DATABASE_URL", " postgres://localhost/mdvrp ")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "90m")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/srv/instances", cfg.DataDir)
	assert.Equal(t, "postgres://localhost/mdvrp", cfg.DatabaseURL)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("REDIS_ENABLED", "maybe")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CACHE_TTL", "forever")

	cfg := Load()
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MDVRP_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("MDVRP_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("MDVRP_TEST_DOTENV"))

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", Get("MDVRP_TEST_DOTENV", "fallback"))

	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
