package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNil is returned by Get when the key does not exist or has expired.
var ErrNil = errors.New("kv: key not found")

// Store exposes the subset of remote key-value operations the storefront needs.
// Every key is caller supplied; implementations must not cache results locally.
type Store interface {
	// HVals returns every value of the hash stored at key. A missing key yields an empty slice.
	HVals(ctx context.Context, key string) ([]string, error)

	// LRem removes occurrences of value from the list stored at key.
	// count == 0 removes all of them.
	LRem(ctx context.Context, key string, count int64, value string) error

	// LPush inserts value at the head of the list stored at key.
	LPush(ctx context.Context, key string, value string) error

	// LTrim keeps only the elements between start and stop (inclusive).
	LTrim(ctx context.Context, key string, start, stop int64) error

	// LRange returns the elements between start and stop (inclusive); -1 means the last element.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// Get returns the raw value stored at key, or ErrNil.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key. A ttl <= 0 stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys.
	Del(ctx context.Context, keys ...string) error
}
