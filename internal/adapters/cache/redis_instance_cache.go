package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisInstanceCache stores parsed instances as gzip-compressed JSON keyed
// by the fingerprint of the source file.
type RedisInstanceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisInstanceCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisInstanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisInstanceCache{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
		logger: logger.With("component", "redis_instance_cache"),
	}, nil
}

func (c *RedisInstanceCache) Close() error {
	return c.client.Close()
}

func (c *RedisInstanceCache) key(k string) string {
	return c.prefix + k
}

// Get returns the cached instance, or nil on a miss.
func (c *RedisInstanceCache) Get(ctx context.Context, fingerprint string) (_ *domain.ProblemInstance, err error) {
	defer obs.Time(ctx, "instance.cache.Get")(&err)

	if strings.TrimSpace(fingerprint) == "" {
		return nil, errors.New("get instance cache: fingerprint must not be empty")
	}

	key := KeyInstance(fingerprint)
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get instance cache key=%s: %w", key, err)
	}

	raw, err := gzipDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("get instance cache key=%s: decompress: %w", key, err)
	}

	var inst domain.ProblemInstance
	if err := json.Unmarshal(raw, &inst); err != nil {
		return nil, fmt.Errorf("get instance cache key=%s: json unmarshal: %w", key, err)
	}

	c.logger.Debug("cache hit", "key", key, "size_bytes", len(data))
	return &inst, nil
}

func (c *RedisInstanceCache) Put(ctx context.Context, fingerprint string, inst *domain.ProblemInstance) (err error) {
	defer obs.Time(ctx, "instance.cache.Put")(&err)

	if strings.TrimSpace(fingerprint) == "" {
		return errors.New("put instance cache: fingerprint must not be empty")
	}
	if inst == nil {
		return errors.New("put instance cache: instance must be non-nil")
	}

	raw, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("put instance cache: json marshal: %w", err)
	}

	compressed, err := gzipCompress(raw)
	if err != nil {
		return fmt.Errorf("put instance cache: compress: %w", err)
	}

	key := KeyInstance(fingerprint)
	if err := c.client.Set(ctx, c.key(key), compressed, c.ttl).Err(); err != nil {
		return fmt.Errorf("put instance cache key=%s: %w", key, err)
	}

	c.logger.Debug("cache set", "key", key, "original_size", len(raw), "compressed_size", len(compressed), "ttl", c.ttl)
	return nil
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}
