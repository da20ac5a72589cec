// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockroom-console/internal/core/ports"
)

// CacheKeyPrefix namespaces console keys in the shared Redis database
type CacheKeyPrefix string

const (
	PrefixSession  CacheKeyPrefix = "session"
	PrefixCategory CacheKeyPrefix = "cat"
)

// ErrCacheMiss is ports.ErrCacheMiss, re-exported for adapter callers
var ErrCacheMiss = ports.ErrCacheMiss

// Cache stores JSON documents in Redis
type Cache struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *slog.Logger
}

var _ ports.Cache = (*Cache)(nil)

// NewCache creates a cache whose zero-ttl writes expire after defaultTTL
func NewCache(client *redis.Client, defaultTTL time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client:     client,
		defaultTTL: defaultTTL,
		logger:     logger.With(slog.String("component", "cache")),
	}
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %s: encode: %w", key, err)
	}
	return c.write(ctx, key, data, ttl)
}

func (c *Cache) write(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "redis write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	c.logger.DebugContext(ctx, "cache write",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
		slog.Duration("ttl", ttl))
	return nil
}

// Get decodes the value stored under key into dest. A missing or expired
// key yields ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		c.logger.ErrorContext(ctx, "redis read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache get %s: decode: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", strings.Join(keys, ","), err)
	}
	return nil
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, dest any, ttl time.Duration,
	load func(ctx context.Context) (any, error)) error {

	err := c.Get(ctx, key, dest)
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	value, err := load(ctx)
	if err != nil {
		return fmt.Errorf("cache load %s: %w", key, err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache load %s: encode: %w", key, err)
	}
	// the loaded value is still returned when the write fails
	if err := c.write(ctx, key, data, ttl); err != nil {
		c.logger.WarnContext(ctx, "loaded value not cached",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return json.Unmarshal(data, dest)
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}

// BuildKey joins prefix and parts with colons
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}
