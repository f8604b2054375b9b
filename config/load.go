package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. STOREFRONT_REDIS_URL.
const EnvPrefix = "STOREFRONT"

// Load reads path from the OS filesystem. An empty path skips the file and
// uses defaults plus environment overrides.
func Load(path string) (Config, error) {
	return LoadFS(afero.NewOsFs(), path)
}

// LoadFS reads the configuration file at path from fs, applies STOREFRONT_*
// environment overrides and validates the result.
func LoadFS(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// every key needs a default so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.user_header", cfg.HTTP.UserHeader)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)
	v.SetDefault("db.driver", cfg.DB.Driver)
	v.SetDefault("db.dsn", cfg.DB.DSN)
	v.SetDefault("db.migrate", cfg.DB.Migrate)
	v.SetDefault("redis.url", cfg.Redis.URL)
	v.SetDefault("redis.namespace", cfg.Redis.Namespace)
	v.SetDefault("cache.backend", cfg.Cache.Backend)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.capacity", cfg.Cache.Capacity)
	v.SetDefault("history.limit", cfg.History.Limit)
	v.SetDefault("listing.page_size", cfg.Listing.PageSize)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.level", cfg.Log.Level)
}
