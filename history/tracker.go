// Package history keeps the per-user list of recently viewed SKUs in the
// shared key-value store.
package history

import (
	"context"
	"fmt"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/kv"
)

// DefaultLimit is how many SKUs a user's history keeps.
const DefaultLimit = 5

const keyMethod = "history"

// Tracker records product views, most recent first, without duplicates.
type Tracker struct {
	store kv.Store
	keys  cache.KeySerializer
	limit int64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLimit overrides DefaultLimit. Values below 1 are ignored.
func WithLimit(limit int) Option {
	return func(t *Tracker) {
		if limit > 0 {
			t.limit = int64(limit)
		}
	}
}

// WithKeySerializer overrides the serializer used to build per-user keys.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(t *Tracker) {
		if keys != nil {
			t.keys = keys
		}
	}
}

// NewTracker creates a Tracker backed by store.
func NewTracker(store kv.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		keys:  cache.NewDefaultKeySerializer(),
		limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Limit returns the maximum history length.
func (t *Tracker) Limit() int {
	return int(t.limit)
}

// Key returns the store key holding userID's history.
func (t *Tracker) Key(userID string) string {
	return t.keys.SerializeKey(keyMethod, userID)
}

// RecordView moves productID to the front of userID's history and drops
// anything past the limit. Anonymous users (empty userID) are ignored.
// Store failures are returned as is; there is no retry.
func (t *Tracker) RecordView(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return nil
	}

	key := t.Key(userID)

	if err := t.store.LRem(ctx, key, 0, productID); err != nil {
		return fmt.Errorf("history: remove %s: %w", productID, err)
	}
	if err := t.store.LPush(ctx, key, productID); err != nil {
		return fmt.Errorf("history: push %s: %w", productID, err)
	}
	if err := t.store.LTrim(ctx, key, 0, t.limit-1); err != nil {
		return fmt.Errorf("history: trim: %w", err)
	}
	return nil
}

// Recent returns userID's history, most recent first. Anonymous users get nil.
func (t *Tracker) Recent(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, nil
	}

	ids, err := t.store.LRange(ctx, t.Key(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}
	return ids, nil
}
