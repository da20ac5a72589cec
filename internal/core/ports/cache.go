// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get for keys that are absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Cache is a JSON key/value store with per-key expiry. Console sessions and
// the category list live here.
type Cache interface {
	// Set stores value under key. A ttl of zero uses the cache default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error

	// GetOrLoad reads key into dest. On a miss it calls load, keeps the
	// result for ttl and decodes it into dest. Errors other than a miss are
	// returned without calling load.
	GetOrLoad(ctx context.Context, key string, dest any, ttl time.Duration,
		load func(ctx context.Context) (any, error)) error

	Ping(ctx context.Context) error
}
