package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backend names accepted by Config.Backend.
const (
	BackendRemote = "redis"
	BackendMemory = "memory"
)

// Config holds the configuration shared by the cache backends.
type Config struct {
	// Backend selects where entries live: BackendRemote keeps them in the
	// shared key-value store, BackendMemory in a per-process sturdyc client.
	Backend string

	// TTL is the lifetime of every entry written by the service.
	// Must be greater than 0.
	TTL time.Duration

	// Capacity defines the maximum number of entries the in-process backend keeps.
	Capacity int

	// NumShards determines the number of sturdyc shards for concurrent access.
	NumShards int

	// EvictionPercentage is the share of entries sturdyc evicts once Capacity
	// is reached. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns the storefront defaults: remote entries kept for 30 minutes.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendRemote,
		TTL:                30 * time.Minute,
		Capacity:           1000,
		NumShards:          16,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendRemote, BackendMemory)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

// ConfigError represents an invalid argument handed to a cache service.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
