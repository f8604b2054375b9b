// Package cart reads per-user cart quantities from the shared key-value store.
//
// A cart is a hash keyed by SKU id whose values are decimal quantities.
// Writing carts belongs to the checkout flow; this package only aggregates.
package cart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/kv"
)

const keyMethod = "cart"

// QuantityError reports a cart value that is not a non-negative integer.
type QuantityError struct {
	Key   string
	Value string
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("cart: invalid quantity %q in %s", e.Value, e.Key)
}

// Store reads cart mappings.
type Store struct {
	store kv.Store
	keys  cache.KeySerializer
}

// NewStore creates a cart Store. A nil keys uses the default serializer.
func NewStore(store kv.Store, keys cache.KeySerializer) *Store {
	if keys == nil {
		keys = cache.NewDefaultKeySerializer()
	}
	return &Store{store: store, keys: keys}
}

// Key returns the store key holding userID's cart.
func (s *Store) Key(userID string) string {
	return s.keys.SerializeKey(keyMethod, userID)
}

// TotalQuantity sums every quantity in userID's cart. Anonymous users
// (empty userID) get 0 without touching the store; an absent cart is 0.
func (s *Store) TotalQuantity(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}

	key := s.Key(userID)
	vals, err := s.store.HVals(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("cart: read %s: %w", key, err)
	}

	var total int64
	for _, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return 0, &QuantityError{Key: key, Value: v}
		}
		total += n
	}
	return total, nil
}
