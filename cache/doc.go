// Package cache provides the read-through caching contract used by the storefront.
//
// # Overview
//
// The package exports two interfaces and their default implementations:
//
//   - CacheService: read-through lookups with a fixed per-service TTL
//   - KeySerializer: builds stable, human readable keys from a method name and arguments
//
// NewCacheService selects a backend from Config.Backend:
//
//   - "redis": entries are msgpack encoded and written to the shared key-value
//     store (see package kv) with the configured TTL. Expiry is handled by the store.
//   - "memory": entries live in an in-process sturdyc client. Useful for a single
//     node or for development without a key-value server.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig(), store)
//	snapshot, err := cache.GetOrFetch(ctx, svc, "homepage", func(ctx context.Context) (Snapshot, error) {
//		return assembler.BuildSnapshot(ctx)
//	})
//
// # Hits and misses
//
// A key that is present is a hit, even when the stored value is empty. Only an
// absent or expired key calls the fetch function. There is no single-flight
// protection on the remote backend: concurrent misses each rebuild the value and
// the last write wins.
//
// # Keys
//
// Keys are joined with KeySeparator, for example "cart::42" or, with a
// namespace, "shop::history::42". Types implementing fmt.Stringer (uuid.UUID)
// are rendered through String so keys match across processes.
package cache
