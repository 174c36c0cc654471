package components

import (
	"context"

	"mentor-booking/internal/usecase/outbox"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(startOutboxProcessor),
)

// startOutboxProcessor retries effects left pending by crashed or failed commands.
func startOutboxProcessor(lc fx.Lifecycle, p *outbox.Processor) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			p.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			p.Stop()
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
