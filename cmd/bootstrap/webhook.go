package bootstrap

import (
	"context"
	"log/slog"

	"mentor-booking/internal/infra/webhook"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var WebhookModule = fx.Module("webhook",
	fx.Provide(
		fx.Annotate(
			NewDispatcher,
			fx.As(new(shared.EventSender)),
		),
	),
)

func NewDispatcher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *webhook.Dispatcher {
	d := webhook.NewDispatcher(cfg.Webhook, logger)
	if cfg.Webhook.URL == "" {
		logger.Warn("WEBHOOK_URL is empty, lifecycle events will not be delivered")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Close(ctx)
		},
	})
	return d
}
