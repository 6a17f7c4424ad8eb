package components

import (
	"context"

	"stayhub/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewProcessor,
		worker.NewRetryPoller,
	),
	fx.Invoke(startWorkers),
)

func startWorkers(lc fx.Lifecycle, processor *worker.Processor, poller *worker.RetryPoller) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := processor.Start(ctx); err != nil {
				cancel()
				return err
			}
			poller.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			processor.Stop()
			return nil
		},
	})
}
