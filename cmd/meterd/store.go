package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Mohnish27-dev/protocol-zero/pkg/config"
	"github.com/Mohnish27-dev/protocol-zero/pkg/insight"
	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
	"github.com/Mohnish27-dev/protocol-zero/pkg/mongo"
	"github.com/Mohnish27-dev/protocol-zero/pkg/pg"
	"github.com/Mohnish27-dev/protocol-zero/pkg/redis"
	"github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

var (
	errUnknownDriver = errors.New("meterd.errors.unknown_store_driver")
	errUnknownCache  = errors.New("meterd.errors.unknown_insight_cache")
)

// backend is the opened persistence layer with its readiness probes and closers.
type backend struct {
	store   usage.Store
	redis   goredis.UniversalClient
	probes  []func(context.Context) error
	closers []func(context.Context) error
}

func (b *backend) close(ctx context.Context, log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.WarnContext(ctx, "failed to close backend", logger.Error(err))
		}
	}
}

// redisClient connects lazily so the memory and mongo drivers can still use a
// Redis insight cache.
func (b *backend) redisClient(ctx context.Context) (goredis.UniversalClient, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.redis = client
	b.probes = append(b.probes, redis.Healthcheck(client))
	b.closers = append(b.closers, func(context.Context) error { return client.Close() })
	return client, nil
}

func openStore(ctx context.Context, cfg AppConfig, log *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.StoreDriver {
	case driverMemory:
		b.store = usage.NewMemoryStore()
		log.WarnContext(ctx, "using in-memory usage store; counters are lost on restart")

	case driverMongo:
		var mcfg mongo.Config
		if err := config.Load(&mcfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mcfg)
		if err != nil {
			return nil, err
		}
		client := db.Client()
		b.store = usage.NewMongoStore(mongo.UsageCollection(db, mcfg))
		b.probes = append(b.probes, mongo.Healthcheck(client))
		b.closers = append(b.closers, client.Disconnect)

	case driverRedis:
		if _, err := b.redisClient(ctx); err != nil {
			return nil, err
		}
		b.store = usage.NewRedisStore(b.redis)

	case driverPostgres:
		var pcfg pg.Config
		if err := config.Load(&pcfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })
		// The schema ships embedded with the store, so its layout is fixed.
		pcfg.MigrationsPath = usage.MigrationsDir
		if err := pg.Migrate(ctx, pool, usage.Migrations, pcfg, log); err != nil {
			b.close(ctx, log)
			return nil, err
		}
		b.store = usage.NewPostgresStore(pool)
		b.probes = append(b.probes, pg.Healthcheck(pool))

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, cfg.StoreDriver)
	}

	log.InfoContext(ctx, "usage store ready", slog.String("driver", cfg.StoreDriver))
	return b, nil
}

func loadPolicy(ctx context.Context, cfg AppConfig) (*limits.Policy, error) {
	src := limits.NewInMemSource(limits.DefaultPlans())
	if cfg.LimitsFile != "" {
		src = limits.NewFileSource(cfg.LimitsFile)
	}
	return limits.NewPolicy(ctx, src)
}

func newInsightService(ctx context.Context, cfg AppConfig, b *backend, log *slog.Logger) (*insight.Service, error) {
	opts := []insight.Option{
		insight.WithLogger(log),
		insight.WithGenerateTimeout(cfg.InsightTimeout),
	}

	switch cfg.InsightCache {
	case "", "none":
	case "memory":
		opts = append(opts, insight.WithCache(insight.NewMemoryCache(cfg.InsightCacheSize, cfg.InsightCacheTTL)))
	case "redis":
		client, err := b.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, insight.WithCache(insight.NewRedisCache(client, "", cfg.InsightCacheTTL)))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCache, cfg.InsightCache)
	}

	return insight.NewService(insight.RuleGenerator{}, opts...)
}
