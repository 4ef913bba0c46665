package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Forever stores an entry with no expiration. Any ttl <= 0 behaves the same.
const Forever time.Duration = 0

// DefaultQueryTimeout is the per-operation timeout for cache backends that
// perform I/O (SQLite, Redis). Prevents indefinite hangs on slow or
// unresponsive storage.
const DefaultQueryTimeout = 5 * time.Second

type Cache interface {
	// Get retrieves a value from the cache. Absence is a normal outcome,
	// reported through the bool, not an error.
	Get(ctx context.Context, key string) (bool, any, error)

	// Set stores a value under key. A ttl <= 0 stores the entry forever.
	Set(ctx context.Context, key string, val any, ttl time.Duration) error

	// Hits returns the number of times a key has been read since it was
	// last written.
	Hits(ctx context.Context, key string) (bool, int)

	// Expire removes a key from the cache.
	Expire(ctx context.Context, key string) (bool, error)

	// Close shuts down the cache.
	Close() error
}

type entry struct {
	object  any
	expires time.Time // zero means never
	hits    int
}

func (e *entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && e.expires.Before(now)
}

// config holds the resolved configuration for a cache implementation.
type config struct {
	queryTimeout time.Duration
	sweepEvery   time.Duration
	prefix       string
}

// Option configures a Cache implementation.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{
		queryTimeout: DefaultQueryTimeout,
		sweepEvery:   time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithQueryTimeout sets the per-operation timeout for I/O-backed caches
// (SQLite, Redis). Defaults to DefaultQueryTimeout (5 seconds).
func WithQueryTimeout(d time.Duration) Option {
	return func(c *config) { c.queryTimeout = d }
}

// WithSweepInterval sets the interval for background cleanup of expired
// entries. Applies to the in-memory and SQLite backends. Defaults to 1 minute.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.sweepEvery = d }
}

// WithPrefix sets the key prefix for namespacing cache keys.
// Applies to the Redis backend. Defaults to empty (no prefix).
func WithPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}

// Get retrieves a typed value from the cache.
// For the in-memory backend, it performs a direct type assertion.
// For serialized backends (SQLite, Redis), it deserializes from []byte using
// msgpack, so the caller always receives its own copy of the stored value.
func Get[T any](ctx context.Context, c Cache, key string) (bool, T, error) {
	found, val, err := c.Get(ctx, key)
	if !found || err != nil {
		var zero T
		return false, zero, err
	}
	if typed, ok := val.(T); ok {
		return true, typed, nil
	}
	if data, ok := val.([]byte); ok {
		var result T
		if err := msgpack.Unmarshal(data, &result); err != nil {
			var zero T
			return false, zero, fmt.Errorf("cache: failed to unmarshal value: %w", err)
		}
		return true, result, nil
	}
	var zero T
	return false, zero, fmt.Errorf("cache: cannot convert value of type %T to %T", val, zero)
}

// ExecConfig configures the Exec helper.
type ExecConfig struct {
	// Key is the cache key. Required.
	Key string
	// TTL is how long the value is kept. Zero or negative stores it forever.
	TTL time.Duration
}

// Invoker is a function that produces a value of type T.
// The bool return indicates whether a value was found. Return false to signal
// "not found" without caching a zero value.
type Invoker[T any] func(ctx context.Context) (T, bool, error)

// Exec is a cache-aside helper. It checks the cache for config.Key first.
// On a cache hit, it returns the cached value with found=true.
// On a cache miss, it calls invoke to produce the value. If invoke returns
// found=true, the value is stored in the cache and returned with found=true.
// If invoke returns found=false, nothing is cached and found=false is returned.
// If invoke or the cache returns an error, the error is propagated.
// If the cache Set fails after a successful invoke, the value is still
// returned (the Set error is swallowed since the primary operation succeeded).
func Exec[T any](ctx context.Context, config ExecConfig, c Cache, invoke Invoker[T]) (bool, T, error) {
	found, val, err := Get[T](ctx, c, config.Key)
	if err != nil {
		var zero T
		return false, zero, err
	}
	if found {
		return true, val, nil
	}

	result, ok, err := invoke(ctx)
	if err != nil {
		var zero T
		return false, zero, err
	}
	if !ok {
		var zero T
		return false, zero, nil
	}

	// Swallow Set errors — the caller got their value.
	_ = c.Set(ctx, config.Key, result, config.TTL)

	return true, result, nil
}
