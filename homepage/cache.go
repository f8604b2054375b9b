package homepage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog"
)

// KeyName is the cache key the snapshot is stored under, before namespacing.
const KeyName = "homepage"

// Builder assembles a fresh snapshot from the relational store.
type Builder interface {
	BuildSnapshot(ctx context.Context) (catalog.Snapshot, error)
}

// Cache reads the home page snapshot through a CacheService.
type Cache struct {
	service cache.CacheService
	builder Builder
	key     string
	logger  *zap.Logger
	meter   metric.MeterProvider

	hitCounter  metric.Int64Counter
	missCounter metric.Int64Counter
}

// Option configures a Cache.
type Option func(*Cache)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithKeySerializer derives the snapshot key from serializer, e.g. to add a namespace.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(c *Cache) {
		if serializer != nil {
			c.key = serializer.SerializeKey(KeyName)
		}
	}
}

// WithMeterProvider replaces the global OpenTelemetry meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *Cache) {
		if provider != nil {
			c.meter = provider
		}
	}
}

func New(service cache.CacheService, builder Builder, opts ...Option) *Cache {
	c := &Cache{
		service: service,
		builder: builder,
		key:     KeyName,
		logger:  zap.NewNop(),
		meter:   otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(c)
	}

	meter := c.meter.Meter("github.com/goliatone/go-storefront/homepage")
	var err error
	if c.hitCounter, err = meter.Int64Counter("storefront.homepage.cache.hits",
		metric.WithDescription("Number of home page snapshot cache hits")); err != nil {
		c.logger.Debug("homepage hit counter unavailable", zap.Error(err))
	}
	if c.missCounter, err = meter.Int64Counter("storefront.homepage.cache.misses",
		metric.WithDescription("Number of home page snapshot rebuilds")); err != nil {
		c.logger.Debug("homepage miss counter unavailable", zap.Error(err))
	}

	return c
}

// Key returns the cache key holding the snapshot.
func (c *Cache) Key() string {
	return c.key
}

// Get returns the cached snapshot, building and storing it on a miss.
// Build and store failures are returned unchanged and nothing is cached.
func (c *Cache) Get(ctx context.Context) (catalog.Snapshot, error) {
	built := false
	snapshot, err := cache.GetOrFetch(ctx, c.service, c.key, func(ctx context.Context) (catalog.Snapshot, error) {
		built = true
		return c.builder.BuildSnapshot(ctx)
	})
	if err != nil {
		return catalog.Snapshot{}, err
	}

	if built {
		c.recordMiss(ctx)
	} else {
		c.recordHit(ctx)
	}
	return snapshot, nil
}

func (c *Cache) recordHit(ctx context.Context) {
	c.logger.Debug("homepage snapshot cache hit", zap.String("key", c.key))
	if c.hitCounter != nil {
		c.hitCounter.Add(ctx, 1)
	}
}

func (c *Cache) recordMiss(ctx context.Context) {
	c.logger.Debug("homepage snapshot rebuilt", zap.String("key", c.key))
	if c.missCounter != nil {
		c.missCounter.Add(ctx, 1)
	}
}
