//go:build unit

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayhub/internal/pkg/clock"
	commandsmock "stayhub/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type pollerFixture struct {
	ctrl            *gomock.Controller
	eventRepo       *commandsmock.MockWebhookEventRepository
	idempotencyRepo *commandsmock.MockIdempotencyRepository
	processor       *Processor
	poller          *RetryPoller
	clock           *clock.MockClock
}

func newPollerFixture(t *testing.T) *pollerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	eventRepo := commandsmock.NewMockWebhookEventRepository(ctrl)
	idempotencyRepo := commandsmock.NewMockIdempotencyRepository(ctrl)
	webhooks := commandsmock.NewMockWebhookCommands(ctrl)
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	// Workers are never started; enqueued jobs stay visible in the channel.
	processor := NewProcessor(workerConfig(), webhooks, eventRepo, clk)
	poller := NewRetryPoller(workerConfig(), eventRepo, idempotencyRepo, processor, clk)

	return &pollerFixture{
		ctrl:            ctrl,
		eventRepo:       eventRepo,
		idempotencyRepo: idempotencyRepo,
		processor:       processor,
		poller:          poller,
		clock:           clk,
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("re-enqueues due retries and stale pending events", func(t *testing.T) {
		f := newPollerFixture(t)
		now := f.clock.Now()
		cfg := workerConfig()

		due := []uuid.UUID{uuid.New(), uuid.New()}
		stale := []uuid.UUID{uuid.New()}

		f.eventRepo.EXPECT().FindDueRetries(gomock.Any(), now, cfg.PollBatch).
			Return(due, nil).Times(1)
		f.eventRepo.EXPECT().FindPending(gomock.Any(), now.Add(-cfg.PollInterval), cfg.PollBatch).
			Return(stale, nil).Times(1)
		f.idempotencyRepo.EXPECT().DeleteExpired(gomock.Any()).
			Return(int64(0), nil).Times(1)

		f.poller.sweep(ctx)

		assert.Equal(t, len(due)+len(stale), len(f.processor.jobs))
	})

	t.Run("retry lookup failure aborts the sweep", func(t *testing.T) {
		f := newPollerFixture(t)

		f.eventRepo.EXPECT().FindDueRetries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused")).Times(1)

		f.poller.sweep(ctx)

		assert.Zero(t, len(f.processor.jobs))
	})

	t.Run("stale lookup failure still runs housekeeping", func(t *testing.T) {
		f := newPollerFixture(t)

		f.eventRepo.EXPECT().FindDueRetries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).Times(1)
		f.eventRepo.EXPECT().FindPending(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused")).Times(1)
		f.idempotencyRepo.EXPECT().DeleteExpired(gomock.Any()).
			Return(int64(3), nil).Times(1)

		f.poller.sweep(ctx)
	})

	t.Run("empty sweep touches nothing but housekeeping", func(t *testing.T) {
		f := newPollerFixture(t)

		f.eventRepo.EXPECT().FindDueRetries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).Times(1)
		f.eventRepo.EXPECT().FindPending(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).Times(1)
		f.idempotencyRepo.EXPECT().DeleteExpired(gomock.Any()).
			Return(int64(0), nil).Times(1)

		f.poller.sweep(ctx)

		assert.Zero(t, len(f.processor.jobs))
	})
}

func TestSweepSingleFlight(t *testing.T) {
	f := newPollerFixture(t)

	cfg := workerConfig()
	cfg.PollInterval = time.Millisecond
	poller := NewRetryPoller(cfg, f.eventRepo, f.idempotencyRepo, f.processor, f.clock)

	// A tick that fires while a sweep is marked in flight must be skipped;
	// no repository expectations are set, so any call would fail the test.
	poller.inFlight.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	// Let several ticks fire against the in-flight guard.
	time.Sleep(20 * time.Millisecond)
}
