package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/history"
	"github.com/goliatone/go-storefront/web"
)

// Database drivers accepted by DBConfig.Driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config is the storefront process configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
	Listing ListingConfig `mapstructure:"listing"`
	Log     LogConfig     `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	UserHeader      string        `mapstructure:"user_header"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Migrate creates missing catalog tables on startup.
	Migrate bool `mapstructure:"migrate"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
	// Namespace prefixes every key written by the storefront.
	Namespace string `mapstructure:"namespace"`
}

type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type ListingConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// DefaultConfig returns a configuration that runs against a local sqlite
// file and a local redis.
func DefaultConfig() Config {
	cacheDefaults := cache.DefaultConfig()
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			UserHeader:      web.DefaultUserHeader,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		DB: DBConfig{
			Driver: DriverSQLite,
			DSN:    "file:storefront.db?cache=shared",
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		Cache: CacheConfig{
			Backend:  cacheDefaults.Backend,
			TTL:      cacheDefaults.TTL,
			Capacity: cacheDefaults.Capacity,
		},
		History: HistoryConfig{Limit: history.DefaultLimit},
		Listing: ListingConfig{PageSize: catalog.DefaultPageSize},
		Log:     LogConfig{Level: "info"},
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	return validation.Errors{
		"http.addr":         validation.Validate(c.HTTP.Addr, validation.Required),
		"http.user_header":  validation.Validate(c.HTTP.UserHeader, validation.Required),
		"db.driver":         validation.Validate(c.DB.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		"db.dsn":            validation.Validate(c.DB.DSN, validation.Required),
		"redis.url":         validation.Validate(c.Redis.URL, validation.Required),
		"cache":             c.CacheService().Validate(),
		"history.limit":     validation.Validate(c.History.Limit, validation.Required, validation.Min(1)),
		"listing.page_size": validation.Validate(c.Listing.PageSize, validation.Required, validation.Min(1)),
		"log.level":         validation.Validate(c.Log.Level, validation.In("debug", "info", "warn", "error")),
	}.Filter()
}

// CacheService maps the cache section onto cache.Config, keeping the
// backend defaults for the sturdyc tuning knobs.
func (c Config) CacheService() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Backend = c.Cache.Backend
	cfg.TTL = c.Cache.TTL
	cfg.Capacity = c.Cache.Capacity
	return cfg
}
