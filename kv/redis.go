package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var _ Store = (*RedisStore)(nil)

// RedisStore implements Store on top of a go-redis client.
// The caller owns the client lifecycle unless the store was created with Open.
type RedisStore struct {
	client redis.UniversalClient
	owned  bool
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Open parses a redis:// URL, connects and verifies the connection with a PING.
func Open(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client, owned: true}, nil
}

// Client returns the underlying redis client.
func (s *RedisStore) Client() redis.UniversalClient {
	return s.client
}

func (s *RedisStore) HVals(ctx context.Context, key string) ([]string, error) {
	return s.client.HVals(ctx, key).Result()
}

func (s *RedisStore) LRem(ctx context.Context, key string, count int64, value string) error {
	return s.client.LRem(ctx, key, count, value).Err()
}

func (s *RedisStore) LPush(ctx context.Context, key string, value string) error {
	return s.client.LPush(ctx, key, value).Err()
}

func (s *RedisStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	return s.client.LTrim(ctx, key, start, stop).Err()
}

func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.client.LRange(ctx, key, start, stop).Result()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close releases the connection pool if the store opened it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
