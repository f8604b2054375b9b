package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// sturdycService keeps entries inside the current process. It suits a single
// node deployment or local development without a key-value server; every
// replica holds its own copy and rebuilds on its own schedule.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService creates the in-process cache service.
//
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New();
// EvictionInterval is applied as an option when set.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		opts...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch returns the cached value for key or runs fetchFn and stores its result.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if _, err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// Delete removes a single entry so the next GetOrFetch rebuilds it.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Size reports how many entries the client currently holds.
func (s *sturdycService) Size() int {
	return s.client.Size()
}
