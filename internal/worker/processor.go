package worker

import (
	"context"
	"log/slog"
	"sync"

	"stayhub/internal/infra/metrics"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const queueCapacity = 1024

// Job is one unit of work handed to the pool. Every enqueue mints a fresh
// job id, including retries of the same event, so queue bookkeeping never
// confuses two processing rounds of one event.
type Job struct {
	ID      uuid.UUID
	EventID uuid.UUID
}

// Processor drains the in-process queue with a bounded worker pool. The
// durable retry state lives in the webhook_events table; the queue only
// holds ids of events that should be looked at soon.
type Processor struct {
	webhooks  commands.WebhookCommands
	eventRepo commands.WebhookEventRepository
	limiter   *rate.Limiter
	jobs      chan Job
	workers   int
	clock     clock.Clock

	wg       sync.WaitGroup
	stopOnce sync.Once

	// mu orders Enqueue's channel send against Stop's close; a send after
	// close would panic.
	mu      sync.RWMutex
	stopped bool
}

func NewProcessor(cfg config.WebhookConfig, webhooks commands.WebhookCommands, eventRepo commands.WebhookEventRepository, clk clock.Clock) *Processor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		webhooks:  webhooks,
		eventRepo: eventRepo,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		jobs:      make(chan Job, queueCapacity),
		workers:   workers,
		clock:     clk,
	}
}

// Start spawns the pool and re-enqueues the PENDING backlog left over from a
// previous process, so ingested-but-unprocessed events survive restarts.
func (p *Processor) Start(ctx context.Context) error {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}

	ids, err := p.eventRepo.FindPending(ctx, p.clock.Now(), queueCapacity)
	if err != nil {
		return err
	}
	for _, id := range ids {
		p.Enqueue(id)
	}
	if len(ids) > 0 {
		slog.Info("recovered pending webhook backlog", "count", len(ids))
	}
	return nil
}

func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// Enqueue hands an event id to the pool. Returns false when the queue is
// full or the pool has stopped; the caller can rely on the retry poller to
// pick the event up later.
func (p *Processor) Enqueue(eventID uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}

	job := Job{ID: uuid.New(), EventID: eventID}
	select {
	case p.jobs <- job:
		metrics.WebhookQueueDepth.Set(float64(len(p.jobs)))
		return true
	default:
		slog.Warn("webhook work queue full, deferring to retry poller", "event_id", eventID)
		return false
	}
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.WebhookQueueDepth.Set(float64(len(p.jobs)))
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
		if err := p.webhooks.ProcessOne(ctx, job.EventID); err != nil {
			slog.Error("webhook processing hit infrastructure failure",
				"job_id", job.ID,
				"event_id", job.EventID,
				"error", err)
		}
	}
}
