package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-storefront/kv"
	"github.com/vmihailenco/msgpack/v5"
)

// kvService stores msgpack encoded entries in the shared key-value store.
// Expiry is delegated to the store: entries are written with the configured
// TTL and disappear on their own. There is no locking around a miss, so
// concurrent misses each rebuild and the last Set wins.
type kvService struct {
	store kv.Store
	ttl   time.Duration
}

// NewKVService creates a cache service backed by store.
func NewKVService(store kv.Store, cfg Config) (*kvService, error) {
	if store == nil {
		return nil, &ConfigError{Field: "store", Message: "cannot be nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &kvService{store: store, ttl: cfg.TTL}, nil
}

// GetOrFetch decodes the entry at key into the fetchFn result type. When the
// key is absent, or the stored bytes no longer decode into that type, it
// calls fetchFn, writes the encoded result with the configured TTL and
// returns it. Store failures are returned unchanged.
func (s *kvService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	resultType, err := validateFetchFn(fetchFn)
	if err != nil {
		return nil, err
	}

	data, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		if value, ok := decodeAs(data, resultType); ok {
			return value, nil
		}
	case !errors.Is(err, kv.ErrNil):
		return nil, err
	}

	value, err := callFetchFn(ctx, fetchFn)
	if err != nil {
		return nil, err
	}

	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache: encode %q: %w", key, err)
	}

	if err := s.store.Set(ctx, key, encoded, s.ttl); err != nil {
		return nil, err
	}

	return value, nil
}

// Delete removes the entry at key.
func (s *kvService) Delete(ctx context.Context, key string) error {
	return s.store.Del(ctx, key)
}

func decodeAs(data []byte, t reflect.Type) (any, bool) {
	if len(data) == 0 {
		return nil, false
	}
	target := reflect.New(t)
	if err := msgpack.Unmarshal(data, target.Interface()); err != nil {
		return nil, false
	}
	return target.Elem().Interface(), true
}
