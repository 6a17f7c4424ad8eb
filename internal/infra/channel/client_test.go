//go:build unit

package channel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayhub/internal/infra/channel"
	"stayhub/internal/pkg/config"
	"stayhub/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *channel.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return channel.NewClient(config.ChannelConfig{
		BaseURL: server.URL,
		APIKey:  "test-api-key",
		Timeout: 5 * time.Second,
	})
}

func TestPushBooking(t *testing.T) {
	ctx := context.Background()
	b, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)

	t.Run("success: posts the booking and returns the channel's id", func(t *testing.T) {
		var got map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/bookings", r.URL.Path)
			assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"channel_booking_id": "CH-9001"})
		})

		channelRef, err := client.PushBooking(ctx, b)

		require.NoError(t, err)
		assert.Equal(t, "CH-9001", channelRef)
		assert.Equal(t, b.ID().String(), got["booking_id"])
		assert.Equal(t, "cityloft", got["brand"])
		assert.Equal(t, "ada@example.com", got["guest_email"])
		assert.EqualValues(t, 36000, got["price_cents"])
	})

	t.Run("error: non-2xx response surfaces status and body snippet", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"unit unknown"}`, http.StatusUnprocessableEntity)
		})

		channelRef, err := client.PushBooking(ctx, b)

		require.Error(t, err)
		assert.Empty(t, channelRef)
		assert.Contains(t, err.Error(), "channel returned 422")
		assert.Contains(t, err.Error(), "unit unknown")
	})

	t.Run("error: missing channel_booking_id in response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		})

		_, err := client.PushBooking(ctx, b)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing channel_booking_id")
	})

	t.Run("error: context cancellation aborts the request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.PushBooking(cancelled, b)
		require.Error(t, err)
	})
}
