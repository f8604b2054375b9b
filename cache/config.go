package cache

import (
	"time"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
	"github.com/goliatone/go-storefront/kv"
)

// Backend names accepted by Config.Backend.
const (
	BackendRemote = cacheinfra.BackendRemote
	BackendMemory = cacheinfra.BackendMemory
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend            string
	TTL                time.Duration
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with the storefront defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the backend selected by cfg.Backend. The remote
// backend keeps entries in store; the memory backend ignores it.
func NewCacheService(cfg Config, store kv.Store) (CacheService, error) {
	internal := cfg.toInternal()
	if internal.Backend == BackendMemory {
		svc, err := cacheinfra.NewSturdycService(internal)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	svc, err := cacheinfra.NewKVService(store, internal)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Backend:            c.Backend,
		TTL:                c.TTL,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Backend:            cfg.Backend,
		TTL:                cfg.TTL,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
