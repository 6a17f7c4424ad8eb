//go:build unit

package webhook_test

import (
	"encoding/json"
	"testing"
	"time"

	"stayhub/internal/domain/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxRetries  = 5
	testBaseBackoff = 30 * time.Second
)

func newPendingEvent(t *testing.T) *webhook.Event {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return webhook.NewEvent(webhook.TypeBookingCreated, json.RawMessage(`{}`), testMaxRetries, now)
}

func TestNewEvent(t *testing.T) {
	e := newPendingEvent(t)

	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.Equal(t, webhook.StatusPending, e.Status())
	assert.Equal(t, webhook.TypeBookingCreated, e.Type())
	assert.Equal(t, 0, e.Attempts())
	assert.Equal(t, testMaxRetries, e.MaxRetries())
	assert.Nil(t, e.LastError())
	assert.Nil(t, e.NextRetryAt())
	assert.Nil(t, e.ProcessedAt())
}

func TestEventStateMachine(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("happy path PENDING to COMPLETED", func(t *testing.T) {
		e := newPendingEvent(t)

		require.NoError(t, e.MarkProcessing(now))
		assert.Equal(t, webhook.StatusProcessing, e.Status())

		done := now.Add(time.Second)
		require.NoError(t, e.MarkCompleted(done))
		assert.Equal(t, webhook.StatusCompleted, e.Status())
		require.NotNil(t, e.ProcessedAt())
		assert.Equal(t, done, *e.ProcessedAt())
		assert.Nil(t, e.NextRetryAt())
		assert.True(t, e.Status().IsTerminal())
	})

	t.Run("failure schedules a retry", func(t *testing.T) {
		e := newPendingEvent(t)
		require.NoError(t, e.MarkProcessing(now))

		require.NoError(t, e.RecordFailure("unit not found", testBaseBackoff, now))
		assert.Equal(t, webhook.StatusFailed, e.Status())
		assert.Equal(t, 1, e.Attempts())
		require.NotNil(t, e.LastError())
		assert.Equal(t, "unit not found", *e.LastError())

		require.NotNil(t, e.NextRetryAt())
		delay := e.NextRetryAt().Sub(now)
		assert.GreaterOrEqual(t, delay, testBaseBackoff)
		assert.Less(t, delay, testBaseBackoff+webhook.MaxJitter)
	})

	t.Run("FAILED can be re-claimed for processing", func(t *testing.T) {
		e := newPendingEvent(t)
		require.NoError(t, e.MarkProcessing(now))
		require.NoError(t, e.RecordFailure("boom", testBaseBackoff, now))

		require.NoError(t, e.MarkProcessing(now.Add(time.Minute)))
		assert.Equal(t, webhook.StatusProcessing, e.Status())
	})

	t.Run("dead-letters when the retry budget runs out", func(t *testing.T) {
		e := newPendingEvent(t)

		for i := 0; i < testMaxRetries; i++ {
			require.NoError(t, e.MarkProcessing(now))
			require.NoError(t, e.RecordFailure("boom", testBaseBackoff, now))
		}

		assert.True(t, e.IsDeadLetter())
		assert.Equal(t, webhook.StatusDeadLetter, e.Status())
		assert.Equal(t, testMaxRetries, e.Attempts())
		assert.Nil(t, e.NextRetryAt())
		assert.True(t, e.Status().IsTerminal())
	})

	t.Run("terminal states reject any transition", func(t *testing.T) {
		completed := newPendingEvent(t)
		require.NoError(t, completed.MarkProcessing(now))
		require.NoError(t, completed.MarkCompleted(now))
		require.ErrorIs(t, completed.MarkProcessing(now), webhook.ErrTerminalEvent)

		dead := newPendingEvent(t)
		for i := 0; i < testMaxRetries; i++ {
			require.NoError(t, dead.MarkProcessing(now))
			require.NoError(t, dead.RecordFailure("boom", testBaseBackoff, now))
		}
		require.ErrorIs(t, dead.MarkProcessing(now), webhook.ErrTerminalEvent)
	})

	t.Run("invalid transitions", func(t *testing.T) {
		pending := newPendingEvent(t)
		require.ErrorIs(t, pending.MarkCompleted(now), webhook.ErrInvalidTransition)
		require.ErrorIs(t, pending.RecordFailure("boom", testBaseBackoff, now), webhook.ErrInvalidTransition)

		processing := newPendingEvent(t)
		require.NoError(t, processing.MarkProcessing(now))
		require.ErrorIs(t, processing.MarkProcessing(now), webhook.ErrInvalidTransition)
	})
}

func TestNextBackoff(t *testing.T) {
	t.Run("doubles per attempt with bounded jitter", func(t *testing.T) {
		cases := []struct {
			attempt int
			base    time.Duration
		}{
			{attempt: 0, base: 30 * time.Second},
			{attempt: 1, base: 60 * time.Second},
			{attempt: 2, base: 120 * time.Second},
			{attempt: 3, base: 240 * time.Second},
			{attempt: 4, base: 480 * time.Second},
		}

		for _, tc := range cases {
			delay := webhook.NextBackoff(30*time.Second, tc.attempt)
			assert.GreaterOrEqual(t, delay, tc.base, "attempt %d", tc.attempt)
			assert.Less(t, delay, tc.base+webhook.MaxJitter, "attempt %d", tc.attempt)
		}
	})

	t.Run("negative attempt clamps to zero", func(t *testing.T) {
		delay := webhook.NextBackoff(30*time.Second, -3)
		assert.GreaterOrEqual(t, delay, 30*time.Second)
		assert.Less(t, delay, 30*time.Second+webhook.MaxJitter)
	})

	t.Run("huge attempt does not overflow", func(t *testing.T) {
		delay := webhook.NextBackoff(30*time.Second, 10_000)
		assert.Greater(t, delay, time.Duration(0))
	})
}

func TestDecodePayload(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	unitID := uuid.New()

	t.Run("booking created", func(t *testing.T) {
		raw, err := json.Marshal(map[string]any{
			"channel_booking_id": "CH-1001",
			"brand":              "seasidehomes",
			"unit_id":            unitID,
			"guest_name":         "Ada Nilsen",
			"guest_email":        "ada@example.com",
			"check_in":           "2026-03-10T00:00:00Z",
			"check_out":          "2026-03-13T00:00:00Z",
		})
		require.NoError(t, err)

		e := webhook.NewEvent(webhook.TypeBookingCreated, raw, testMaxRetries, now)
		payload, err := e.DecodePayload()
		require.NoError(t, err)

		created, ok := payload.(webhook.BookingCreatedPayload)
		require.True(t, ok)
		assert.Equal(t, "CH-1001", created.ChannelBookingID)
		assert.Equal(t, unitID, created.UnitID)
	})

	t.Run("booking cancelled", func(t *testing.T) {
		raw := json.RawMessage(`{"channel_booking_id":"CH-1001","reason":"guest request"}`)
		e := webhook.NewEvent(webhook.TypeBookingCancelled, raw, testMaxRetries, now)

		payload, err := e.DecodePayload()
		require.NoError(t, err)

		cancelled, ok := payload.(webhook.BookingCancelledPayload)
		require.True(t, ok)
		assert.Equal(t, "guest request", cancelled.Reason)
	})

	t.Run("malformed body errors for known types", func(t *testing.T) {
		e := webhook.NewEvent(webhook.TypeBookingCreated, json.RawMessage(`{broken`), testMaxRetries, now)
		_, err := e.DecodePayload()
		require.Error(t, err)
	})

	t.Run("unknown type preserves the raw body", func(t *testing.T) {
		raw := json.RawMessage(`{"anything":"goes"}`)
		e := webhook.NewEvent(webhook.ParseEventType("loyalty.points"), raw, testMaxRetries, now)

		payload, err := e.DecodePayload()
		require.NoError(t, err)

		unknown, ok := payload.(webhook.UnknownPayload)
		require.True(t, ok)
		assert.JSONEq(t, string(raw), string(unknown.Raw))
	})
}

func TestParseEventType(t *testing.T) {
	cases := []struct {
		raw  string
		want webhook.EventType
	}{
		{raw: "booking.created", want: webhook.TypeBookingCreated},
		{raw: "booking.modified", want: webhook.TypeBookingModified},
		{raw: "booking.cancelled", want: webhook.TypeBookingCancelled},
		{raw: "property.updated", want: webhook.TypePropertyUpdated},
		{raw: "loyalty.points", want: webhook.TypeUnknown},
		{raw: "", want: webhook.TypeUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, webhook.ParseEventType(tc.raw), "raw %q", tc.raw)
	}
}
