package cache

import (
	"context"
	"io"
	"log/slog"
	"mdvrp-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisInstanceCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewRedisInstanceCache(context.Background(), srv.Addr(), "", 0, ttl, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func sampleInstance() *domain.ProblemInstance {
	return &domain.ProblemInstance{
		MaxVehiclesPerDepot: 4,
		Depots: []domain.Depot{
			{MaxVehicles: 4, MaxRouteDuration: 0, MaxLoad: 80, X: 0, Y: 0},
		},
		Customers: []domain.Customer{
			{X: 10, Y: 20, ServiceDuration: 5, Demand: 100},
			{X: 30, Y: 40, ServiceDuration: 3, Demand: 50},
		},
	}
}

func TestRedisInstanceCacheRoundTrip(t *testing.T) {
	c, srv := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "abc123", sampleInstance()))
	assert.True(t, srv.Exists("mdvrp:instance:abc123"))
	assert.Equal(t, time.Hour, srv.TTL("mdvrp:instance:abc123"))

	got, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, sampleInstance(), got)
}

func TestRedisInstanceCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	got, err := c.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisInstanceCacheExpiry(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "abc123", sampleInstance()))
	srv.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisInstanceCacheCorruptEntry(t *testing.T) {
	c, srv := newTestCache(t, time.Hour)
	require.NoError(t, srv.Set("mdvrp:instance:bad", "not gzip"))

	_, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisInstanceCacheValidation(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	assert.Error(t, c.Put(ctx, "", sampleInstance()))
	assert.Error(t, c.Put(ctx, "abc", nil))
	_, err := c.Get(ctx, " ")
	assert.Error(t, err)
}

func TestNewRedisInstanceCacheUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisInstanceCache(context.Background(), addr, "", 0, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
