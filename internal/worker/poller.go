package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"stayhub/internal/infra/metrics"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
)

// RetryPoller periodically moves due FAILED events back into the work queue.
// It is the durable half of retry scheduling: the queue itself is in-memory,
// so a retry that was scheduled before a restart is found here again.
type RetryPoller struct {
	eventRepo       commands.WebhookEventRepository
	idempotencyRepo commands.IdempotencyRepository
	processor       *Processor
	interval        time.Duration
	batch           int
	clock           clock.Clock

	// inFlight makes sweeps single-flight: a tick that fires while the
	// previous sweep still runs is skipped, not queued.
	inFlight atomic.Bool
}

func NewRetryPoller(
	cfg config.WebhookConfig,
	eventRepo commands.WebhookEventRepository,
	idempotencyRepo commands.IdempotencyRepository,
	processor *Processor,
	clk clock.Clock,
) *RetryPoller {
	return &RetryPoller{
		eventRepo:       eventRepo,
		idempotencyRepo: idempotencyRepo,
		processor:       processor,
		interval:        cfg.PollInterval,
		batch:           cfg.PollBatch,
		clock:           clk,
	}
}

func (p *RetryPoller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !p.inFlight.CompareAndSwap(false, true) {
					slog.Debug("retry sweep still running, skipping tick")
					continue
				}
				p.sweep(ctx)
				p.inFlight.Store(false)
			}
		}
	}()
}

func (p *RetryPoller) sweep(ctx context.Context) {
	now := p.clock.Now()

	ids, err := p.eventRepo.FindDueRetries(ctx, now, p.batch)
	if err != nil {
		slog.Error("failed to find due webhook retries", "error", err)
		return
	}
	for _, id := range ids {
		if p.processor.Enqueue(id) {
			metrics.WebhookRetriesEnqueued.Inc()
		}
	}
	if len(ids) > 0 {
		slog.Info("re-enqueued due webhook retries", "count", len(ids))
	}

	// Rescue PENDING events that never made it into the queue (overflow or
	// a crash between ingest and enqueue). The cutoff keeps events that
	// were ingested moments ago out of the sweep.
	stale, err := p.eventRepo.FindPending(ctx, now.Add(-p.interval), p.batch)
	if err != nil {
		slog.Error("failed to find stale pending webhook events", "error", err)
	} else {
		for _, id := range stale {
			p.processor.Enqueue(id)
		}
		if len(stale) > 0 {
			slog.Info("re-enqueued stale pending webhook events", "count", len(stale))
		}
	}

	// Housekeeping rides along on the sweep cadence.
	if deleted, err := p.idempotencyRepo.DeleteExpired(ctx); err != nil {
		slog.Warn("failed to purge expired idempotency keys", "error", err)
	} else if deleted > 0 {
		slog.Debug("purged expired idempotency keys", "count", deleted)
	}
}
