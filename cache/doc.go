// Package cache provides a unified caching interface with multiple backend
// implementations and type-safe generic helpers.
//
// # Cache Interface
//
// The [Cache] interface defines five operations: [Cache.Get], [Cache.Set],
// [Cache.Hits], [Cache.Expire], and [Cache.Close]. All implementations
// satisfy this interface, so backends can be swapped without changing
// application code. Absence of a key is a normal outcome reported through a
// bool, never an error.
//
// Entries written with a ttl <= 0 ([Forever]) never expire and are never
// evicted; they live for the lifetime of the backing store.
//
// The interface uses [any] for values rather than generics because Go does
// not allow generic methods on interfaces. Type safety is provided by the
// package-level generic functions [Get] and [Exec] described below.
//
// # Implementations
//
//   - [NewInMemory] — In-process map guarded by a mutex. Fastest option with
//     zero serialization overhead. Values are stored as-is (no copying), so
//     mutations to stored pointers are visible through the cache. A
//     background goroutine sweeps TTL-bearing entries; Forever entries are
//     left alone. Lost on process restart.
//
//   - [NewSQLite] — Backed by a SQLite database using [modernc.org/sqlite]
//     (pure Go, no CGO). Values are serialized to msgpack and stored as
//     BLOBs. Supports both file-backed (persistent across restarts) and
//     ":memory:" modes. WAL mode is enabled for concurrent read performance.
//     Each operation uses a per-query timeout ([DefaultQueryTimeout]) to
//     prevent hangs on slow storage.
//
//   - [NewRedis] — Backed by Redis using [github.com/redis/go-redis/v9].
//     Values are serialized to msgpack and stored in Redis hashes (fields
//     "v" for value, "h" for hit count). An optional key prefix supports
//     namespacing multiple caches on the same Redis instance. The caller
//     owns the [redis.Client] lifecycle; [Cache.Close] is a no-op.
//
//   - [NewComposite] — Chains multiple [Cache] implementations in order.
//     [Cache.Get] returns the first hit (checked left to right). [Cache.Set]
//     writes to all caches. This enables multi-tier topologies such as
//     in-memory L1 backed by SQLite or Redis L2.
//
// # Generic Helpers
//
// [Get] wraps [Cache.Get] with type safety:
//
//	found, roster, err := cache.Get[dex.GenerationResult](ctx, c, "gen:kanto")
//
// For the in-memory backend, [Get] performs a direct type assertion (zero
// cost). For serialized backends it deserializes the stored []byte via
// msgpack, so a hit always yields the caller's own copy of the value.
//
// [Exec] is a cache-aside (read-through) helper that combines lookup and
// population in one call:
//
//	found, roster, err := cache.Exec(ctx, cache.ExecConfig{Key: "gen:kanto"}, c,
//	    func(ctx context.Context) (dex.GenerationResult, bool, error) {
//	        return fetchRoster(ctx)
//	    })
package cache
