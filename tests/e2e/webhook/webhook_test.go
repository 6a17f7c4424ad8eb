//go:build e2e

package webhook_test

import (
	"net/http"
	"testing"
	"time"

	"stayhub/tests/common/dbtest"
	"stayhub/tests/common/httptest"
	"stayhub/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type WebhookSuite struct {
	e2e.SharedSuite
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookSuite))
}

func (s *WebhookSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

type ingestResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

func (s *WebhookSuite) ingest(envelope map[string]any) ingestResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/webhooks/channel", envelope, nil)

	var res ingestResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &res)
	s.Equal("PENDING", res.Status)
	return res
}

func (s *WebhookSuite) eventStatus(eventID string) string {
	var status string
	err := s.DB.QueryRow(s.T().Context(),
		"SELECT status FROM webhook_events WHERE id = $1", eventID).Scan(&status)
	s.Require().NoError(err)
	return status
}

func (s *WebhookSuite) waitForEventStatus(eventID, want string) {
	s.Require().Eventually(func() bool {
		return s.eventStatus(eventID) == want
	}, 10*time.Second, 50*time.Millisecond, "event %s never reached %s", eventID, want)
}

func (s *WebhookSuite) TestBookingCreatedMirror() {
	s.Run("success: remote booking is mirrored locally with follow-up jobs", func() {
		unitID := dbtest.CreateTestMonthlyUnit(s.T(), s.DB, "casamar", "Villa 3", 300000)

		res := s.ingest(map[string]any{
			"type": "booking.created",
			"payload": map[string]any{
				"channel_booking_id": "CH-1001",
				"brand":              "casamar",
				"unit_id":            unitID.String(),
				"guest_name":         "Remote Guest",
				"guest_email":        "remote@example.com",
				"check_in":           "2027-04-01T00:00:00Z",
				"check_out":          "2027-04-05T00:00:00Z",
			},
		})

		s.waitForEventStatus(res.EventID, "COMPLETED")

		var status, channelRef string
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT status, channel_booking_id FROM bookings WHERE channel_booking_id = 'CH-1001'").
			Scan(&status, &channelRef)
		s.Require().NoError(err)
		s.Equal("CONFIRMED", status)
		s.Equal("CH-1001", channelRef)

		var kind, topic string
		err = s.DB.QueryRow(s.T().Context(), "SELECT kind, topic FROM notification_jobs").Scan(&kind, &topic)
		s.Require().NoError(err)
		s.Equal("cleaning", kind)
		s.Equal("turnover_schedule", topic)
	})

	s.Run("success: redelivered creation does not duplicate the mirror", func() {
		unitID := dbtest.CreateTestMonthlyUnit(s.T(), s.DB, "casamar", "Villa 3", 300000)
		payload := map[string]any{
			"channel_booking_id": "CH-1002",
			"brand":              "casamar",
			"unit_id":            unitID.String(),
			"guest_name":         "Remote Guest",
			"guest_email":        "remote@example.com",
			"check_in":           "2027-04-01T00:00:00Z",
			"check_out":          "2027-04-05T00:00:00Z",
		}

		first := s.ingest(map[string]any{"type": "booking.created", "payload": payload})
		s.waitForEventStatus(first.EventID, "COMPLETED")

		second := s.ingest(map[string]any{"type": "booking.created", "payload": payload})
		s.waitForEventStatus(second.EventID, "COMPLETED")

		var count int
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT count(*) FROM bookings WHERE channel_booking_id = 'CH-1002'").Scan(&count)
		s.Require().NoError(err)
		s.Equal(1, count)

		var jobs int
		err = s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM notification_jobs").Scan(&jobs)
		s.Require().NoError(err)
		s.Equal(1, jobs, "redelivery reuses the deterministic job id")
	})
}

func (s *WebhookSuite) TestBookingCancelled() {
	s.Run("success: cancels the mirrored booking", func() {
		unitID := dbtest.CreateTestMonthlyUnit(s.T(), s.DB, "casamar", "Villa 3", 300000)
		bookingID := dbtest.CreateMirroredBooking(s.T(), s.DB, "casamar", unitID, "CH-2001",
			time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 4, 5, 0, 0, 0, 0, time.UTC))

		res := s.ingest(map[string]any{
			"type": "booking.cancelled",
			"payload": map[string]any{
				"channel_booking_id": "CH-2001",
				"reason":             "guest request",
			},
		})

		s.waitForEventStatus(res.EventID, "COMPLETED")

		var status string
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
		s.Require().NoError(err)
		s.Equal("CANCELLED", status)
	})

	s.Run("retry: cancellation for an unseen booking fails and schedules a retry", func() {
		res := s.ingest(map[string]any{
			"type": "booking.cancelled",
			"payload": map[string]any{
				"channel_booking_id": "CH-NEVER-SEEN",
			},
		})

		s.waitForEventStatus(res.EventID, "FAILED")

		var attempts int
		var nextRetryAt *time.Time
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT attempts, next_retry_at FROM webhook_events WHERE id = $1", res.EventID).
			Scan(&attempts, &nextRetryAt)
		s.Require().NoError(err)
		s.GreaterOrEqual(attempts, 1)
		s.Require().NotNil(nextRetryAt)
		s.True(nextRetryAt.After(time.Now()), "retry must be scheduled in the future")
	})
}

func (s *WebhookSuite) TestUnknownEventType() {
	s.Run("success: unknown types are accepted and completed untouched", func() {
		res := s.ingest(map[string]any{
			"type":    "report.generated",
			"payload": map[string]any{"report_id": uuid.New().String()},
		})

		s.waitForEventStatus(res.EventID, "COMPLETED")
	})
}
