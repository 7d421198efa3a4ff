package bootstrap

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewSlotCache,
	),
)

// NewSlotCache selects the cache backend from configuration: an in-process
// map for single-instance deployments, redis when several instances must
// share invalidation.
func NewSlotCache(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (cache.SlotCache, error) {
	if cfg.Cache.Backend != "redis" {
		slog.Info("slot cache backend: memory")
		return cache.NewMemoryCache(clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.Addr,
		DB:   cfg.Cache.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	slog.Info("slot cache backend: redis", "addr", cfg.Cache.Addr)
	return cache.NewRedisCache(client), nil
}
