//go:build e2e

package booking_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/httperr"
	"stayhub/tests/common/dbtest"
	"stayhub/tests/common/httptest"
	"stayhub/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func createRequestBody(unitID uuid.UUID) map[string]any {
	return map[string]any{
		"brand":          "loftly",
		"unit_id":        unitID.String(),
		"guest_name":     "Ada Nilsen",
		"guest_email":    "ada@example.com",
		"guest_phone":    "+4712345678",
		"check_in":       "2027-03-10T00:00:00Z",
		"check_out":      "2027-03-13T00:00:00Z",
		"payment_method": "card",
	}
}

func headers(key string) map[string]string {
	return map[string]string{"Idempotency-Key": key}
}

func (s *BookingSuite) TestCreateBooking() {
	url := "/api/bookings"

	s.Run("success: creates a booking and returns the full view", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-create-0001"))

		var actual resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &actual)

		expected := &resdto.BookingResponse{
			Brand:           "loftly",
			UnitID:          unitID,
			UnitName:        "Loft 12",
			GuestName:       "Ada Nilsen",
			GuestEmail:      "ada@example.com",
			CheckIn:         time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC),
			CheckOut:        time.Date(2027, 3, 13, 0, 0, 0, 0, time.UTC),
			Nights:          3,
			TotalPriceCents: 36000,
			Currency:        "EUR",
			Status:          "PENDING",
			PaymentStatus:   "INITIATED",
		}

		opts := []cmp.Option{
			cmpopts.IgnoreFields(resdto.BookingResponse{}, "ID", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			s.T().Errorf("booking response mismatch (-expected +actual):\n%s", diff)
		}
		s.NotEqual(uuid.Nil, actual.ID)
	})

	s.Run("success: same key and payload replays the identical status and body", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)
		body := createRequestBody(unitID)

		first := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, body, headers("key-replay-0001"))
		s.Require().Equal(http.StatusCreated, first.Code)

		second := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, body, headers("key-replay-0001"))
		s.Equal(http.StatusCreated, second.Code, "replay must repeat the original status")
		s.Equal(first.Body.Bytes(), second.Body.Bytes(), "replay must serve the stored body verbatim")

		var count int
		err := s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM bookings").Scan(&count)
		s.Require().NoError(err)
		s.Equal(1, count, "replay must not create a second booking")
	})

	s.Run("error: same key with a different payload is rejected", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		first := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-reuse-0001"))
		s.Require().Equal(http.StatusCreated, first.Code)

		changed := createRequestBody(unitID)
		changed["guest_name"] = "Someone Else"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, changed, headers("key-reuse-0001"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, httperr.CodeIdempotencyKeyReused)
	})

	s.Run("error: overlapping stay on the same unit conflicts", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		first := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-overlap-01"))
		s.Require().Equal(http.StatusCreated, first.Code)

		overlapping := createRequestBody(unitID)
		overlapping["guest_email"] = "bo@example.com"
		overlapping["check_in"] = "2027-03-12T00:00:00Z"
		overlapping["check_out"] = "2027-03-15T00:00:00Z"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, overlapping, headers("key-overlap-02"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, httperr.CodeBookingConflict)
	})

	s.Run("error: simultaneous overlapping requests persist exactly one booking", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		second := createRequestBody(unitID)
		second["guest_email"] = "bo@example.com"
		requests := []struct {
			body map[string]any
			key  string
		}{
			{body: createRequestBody(unitID), key: "key-race-00001"},
			{body: second, key: "key-race-00002"},
		}

		codes := make(chan int, len(requests))
		var wg sync.WaitGroup
		for _, req := range requests {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, req.body, headers(req.key))
				codes <- rec.Code
			}()
		}
		wg.Wait()
		close(codes)

		var got []int
		for code := range codes {
			got = append(got, code)
		}
		s.ElementsMatch([]int{http.StatusCreated, http.StatusConflict}, got,
			"exactly one of the racing requests may win the stay")

		var count int
		err := s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM bookings").Scan(&count)
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("success: back-to-back stays do not conflict", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		first := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-b2b-00001"))
		s.Require().Equal(http.StatusCreated, first.Code)

		nextGuest := createRequestBody(unitID)
		nextGuest["guest_email"] = "bo@example.com"
		nextGuest["check_in"] = "2027-03-13T00:00:00Z"
		nextGuest["check_out"] = "2027-03-16T00:00:00Z"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, nextGuest, headers("key-b2b-00002"))
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("success: a cancelled booking frees the dates", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		first := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-free-00001"))
		s.Require().Equal(http.StatusCreated, first.Code)

		var created resdto.BookingResponse
		_ = httptest.DecodeResponseBody(s.T(), first.Body, &created)

		cancel := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url+"/"+created.ID.String()+"/cancel", nil, nil)
		s.Require().Equal(http.StatusNoContent, cancel.Code)

		rebook := createRequestBody(unitID)
		rebook["guest_email"] = "bo@example.com"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, rebook, headers("key-free-00002"))
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: standalone brand rejects local writes", func() {
		unitID := dbtest.CreateTestMonthlyUnit(s.T(), s.DB, "casamar", "Villa 3", 300000)

		body := createRequestBody(unitID)
		body["brand"] = "casamar"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, body, headers("key-writer-001"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, httperr.CodeWriterLockViolation)
	})

	s.Run("error: unknown brand", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		body := createRequestBody(unitID)
		body["brand"] = "nonexistent"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, body, headers("key-brand-0001"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, httperr.CodeBrandUnknown)
	})
}

func (s *BookingSuite) TestGetAndListBookings() {
	url := "/api/bookings"

	s.Run("success: fetch by id and list by guest email", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)

		created := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, url, createRequestBody(unitID), headers("key-get-000001"))
		s.Require().Equal(http.StatusCreated, created.Code)

		var createdRes resdto.BookingResponse
		_ = httptest.DecodeResponseBody(s.T(), created.Body, &createdRes)

		got := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url+"/"+createdRes.ID.String(), nil, nil)
		var fetched resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), got, http.StatusOK, &fetched)

		opts := []cmp.Option{
			cmpopts.EquateApproxTime(time.Second),
		}
		if diff := cmp.Diff(&createdRes, &fetched, opts...); diff != "" {
			s.T().Errorf("fetched booking mismatch (-created +fetched):\n%s", diff)
		}

		list := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url+"?guest_email=ada@example.com", nil, nil)
		var items []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), list, http.StatusOK, &items)
		s.Require().Len(items, 1)
		s.Equal(createdRes.ID, items[0].ID)
	})

	s.Run("error: missing booking returns 404", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, url+"/"+uuid.New().String(), nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, httperr.CodeBookingNotFound)
	})
}

func (s *BookingSuite) TestQuote() {
	s.Run("success: quote reflects availability", func() {
		unitID := dbtest.CreateTestUnit(s.T(), s.DB, "loftly", "Loft 12", 12000)
		quoteURL := "/api/quotes?brand=loftly&unit_id=" + unitID.String() +
			"&check_in=2027-03-10&check_out=2027-03-13"

		before := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, quoteURL, nil, nil)
		var quote resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), before, http.StatusOK, &quote)
		s.Equal(3, quote.Nights)
		s.Equal(int64(36000), quote.TotalPriceCents)
		s.True(quote.Available)

		created := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/bookings", createRequestBody(unitID), headers("key-quote-0001"))
		s.Require().Equal(http.StatusCreated, created.Code)

		after := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, quoteURL, nil, nil)
		var taken resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), after, http.StatusOK, &taken)
		s.False(taken.Available)
	})

	s.Run("success: standalone brands stay quotable", func() {
		unitID := dbtest.CreateTestMonthlyUnit(s.T(), s.DB, "casamar", "Villa 3", 300000)
		quoteURL := "/api/quotes?brand=casamar&unit_id=" + unitID.String() +
			"&check_in=2027-03-10&check_out=2027-03-13"

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, quoteURL, nil, nil)
		var quote resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &quote)
		s.Equal(int64(30000), quote.TotalPriceCents)
	})
}
