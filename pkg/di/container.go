package di

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/config"
	"github.com/goliatone/go-storefront/history"
	"github.com/goliatone/go-storefront/homepage"
	"github.com/goliatone/go-storefront/kv"
	"github.com/goliatone/go-storefront/web"
)

// Container wires the storefront components from a config.Config.
// It owns the database and key-value connections it opens itself and
// releases them on Close; injected ones are left to the caller.
type Container struct {
	config        config.Config
	logger        *zap.Logger
	db            *bun.DB
	kvStore       kv.Store
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	catalogStore  *catalog.BunStore
	assembler     *catalog.Assembler
	home          *homepage.Cache
	carts         *cart.Store
	history       *history.Tracker
	handler       *web.Handler

	closers []func() error
}

// Option customizes container construction, mostly to inject test doubles.
type Option func(*Container)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithDB uses db instead of opening cfg.DB.
func WithDB(db *bun.DB) Option {
	return func(c *Container) {
		c.db = db
	}
}

// WithKVStore uses store instead of dialing cfg.Redis.URL.
func WithKVStore(store kv.Store) Option {
	return func(c *Container) {
		c.kvStore = store
	}
}

// NewContainer validates cfg, opens missing connections and builds every component.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	if c.logger == nil {
		logger, err := NewLogger(c.config.Log)
		if err != nil {
			return err
		}
		c.logger = logger
	}

	if c.db == nil {
		db, err := OpenDB(c.config.DB)
		if err != nil {
			return err
		}
		c.db = db
		c.closers = append(c.closers, db.Close)
	}

	if c.kvStore == nil {
		store, err := kv.Open(ctx, c.config.Redis.URL)
		if err != nil {
			return err
		}
		c.kvStore = store
		c.closers = append(c.closers, store.Close)
	}

	c.keySerializer = cache.NewDefaultKeySerializer()
	if c.config.Redis.Namespace != "" {
		c.keySerializer = cache.NewNamespacedKeySerializer(c.config.Redis.Namespace)
	}

	cacheService, err := cache.NewCacheService(c.config.CacheService(), c.kvStore)
	if err != nil {
		return err
	}
	c.cacheService = cacheService

	c.catalogStore = catalog.NewBunStore(c.db)
	if c.config.DB.Migrate {
		if err := c.catalogStore.CreateSchema(ctx); err != nil {
			return err
		}
	}

	c.assembler = catalog.NewAssembler(c.catalogStore,
		catalog.WithLogger(c.logger.Named("catalog")),
		catalog.WithPageSize(c.config.Listing.PageSize),
	)
	c.home = homepage.New(c.cacheService, c.assembler,
		homepage.WithLogger(c.logger.Named("homepage")),
		homepage.WithKeySerializer(c.keySerializer),
	)
	c.carts = cart.NewStore(c.kvStore, c.keySerializer)
	c.history = history.NewTracker(c.kvStore,
		history.WithLimit(c.config.History.Limit),
		history.WithKeySerializer(c.keySerializer),
	)

	handler, err := web.NewHandler(c.home, c.assembler, c.carts, c.history,
		web.WithLogger(c.logger.Named("web")),
		web.WithUserResolver(web.HeaderUserResolver{Header: c.config.HTTP.UserHeader}),
	)
	if err != nil {
		return err
	}
	c.handler = handler

	c.logger.Info("storefront container ready",
		zap.String("db_driver", c.config.DB.Driver),
		zap.String("cache_backend", c.config.Cache.Backend),
		zap.Duration("cache_ttl", c.config.Cache.TTL),
	)
	return nil
}

// OpenDB opens the configured database with the matching bun dialect.
func OpenDB(cfg config.DBConfig) (*bun.DB, error) {
	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case config.DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb.Close()
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewLogger builds a production zap logger, or a development one when cfg.Development is set.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}

// Close releases the connections the container opened, in reverse order.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	if c.logger != nil {
		c.logger.Sync()
	}
	return first
}

func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

func (c *Container) DB() *bun.DB {
	return c.db
}

// CacheService returns the snapshot cache backend.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the serializer shared by the cart, history and snapshot keys.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

func (c *Container) CatalogStore() *catalog.BunStore {
	return c.catalogStore
}

func (c *Container) Assembler() *catalog.Assembler {
	return c.assembler
}

func (c *Container) Home() *homepage.Cache {
	return c.home
}

func (c *Container) Carts() *cart.Store {
	return c.carts
}

func (c *Container) History() *history.Tracker {
	return c.history
}

// HTTPHandler returns the routed storefront handler.
func (c *Container) HTTPHandler() http.Handler {
	return c.handler.Routes()
}
