// Package homepage serves the home page catalog snapshot through a
// read-through cache.
//
// The snapshot is stored under a single key with the TTL of the underlying
// cache service (30 minutes by default). It is never invalidated explicitly;
// readers accept staleness up to the TTL. There is no single-flight: when
// several requests miss at once, each rebuilds the snapshot and the last
// write wins.
//
//	home := homepage.New(cacheService, assembler, homepage.WithLogger(logger))
//	snapshot, err := home.Get(ctx)
package homepage
