package bootstrap

import (
	"mentor-booking/internal/infra/cache"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		fx.Annotate(
			NewCache,
			fx.As(new(shared.Cache)),
		),
		fx.Annotate(
			cache.NewVersions,
			fx.As(new(shared.VersionStore)),
		),
	),
)

func NewCache(cfg config.Config, clk clock.Clock) (*cache.Memory, error) {
	return cache.NewMemory(cfg.Cache.MaxEntries, clk)
}
