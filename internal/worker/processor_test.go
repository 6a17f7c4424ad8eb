//go:build unit

package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	commandsmock "stayhub/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func workerConfig() config.WebhookConfig {
	return config.WebhookConfig{
		BaseBackoff:  30 * time.Second,
		MaxRetries:   5,
		Workers:      2,
		RateLimit:    1000,
		RateBurst:    100,
		PollInterval: 30 * time.Second,
		PollBatch:    50,
	}
}

func TestProcessorBacklogRecovery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommands := commandsmock.NewMockWebhookCommands(ctrl)
	mockEventRepo := commandsmock.NewMockWebhookEventRepository(ctrl)
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	backlog := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mockEventRepo.EXPECT().FindPending(gomock.Any(), clk.Now(), queueCapacity).
		Return(backlog, nil).Times(1)

	var wg sync.WaitGroup
	wg.Add(len(backlog))
	for _, id := range backlog {
		mockCommands.EXPECT().ProcessOne(gomock.Any(), id).
			DoAndReturn(func(context.Context, uuid.UUID) error {
				wg.Done()
				return nil
			}).Times(1)
	}

	p := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clk)
	require.NoError(t, p.Start(context.Background()))

	wg.Wait()
	p.Stop()
}

func TestProcessorEnqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommands := commandsmock.NewMockWebhookCommands(ctrl)
	mockEventRepo := commandsmock.NewMockWebhookEventRepository(ctrl)
	clk := clock.NewMockClock(time.Now())

	// Workers are never started, so jobs accumulate in the channel.
	p := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clk)

	t.Run("accepts until the queue is full", func(t *testing.T) {
		for i := 0; i < queueCapacity; i++ {
			require.True(t, p.Enqueue(uuid.New()))
		}
		assert.False(t, p.Enqueue(uuid.New()), "overflow must be rejected, not block")
	})

	t.Run("every enqueue mints a distinct job id", func(t *testing.T) {
		eventID := uuid.New()
		q := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clk)
		require.True(t, q.Enqueue(eventID))
		require.True(t, q.Enqueue(eventID))

		first := <-q.jobs
		second := <-q.jobs
		assert.Equal(t, eventID, first.EventID)
		assert.Equal(t, eventID, second.EventID)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestProcessorStopIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommands := commandsmock.NewMockWebhookCommands(ctrl)
	mockEventRepo := commandsmock.NewMockWebhookEventRepository(ctrl)
	p := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clock.NewMockClock(time.Now()))

	p.Stop()
	p.Stop()
}

func TestProcessorEnqueueAfterStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCommands := commandsmock.NewMockWebhookCommands(ctrl)
	mockEventRepo := commandsmock.NewMockWebhookEventRepository(ctrl)
	clk := clock.NewMockClock(time.Now())

	t.Run("enqueue on a stopped pool is refused, not a panic", func(t *testing.T) {
		p := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clk)
		p.Stop()
		assert.False(t, p.Enqueue(uuid.New()))
	})

	t.Run("enqueues racing a stop never send on the closed channel", func(t *testing.T) {
		p := NewProcessor(workerConfig(), mockCommands, mockEventRepo, clk)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Enqueue(uuid.New())
			}()
		}
		p.Stop()
		wg.Wait()
	})
}
