package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"
)

// Client talks to the external channel manager's booking API. Every call
// carries the configured timeout so a slow channel can never stall a booking
// request past its deadline.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.ChannelConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type pushBookingRequest struct {
	BookingID  string    `json:"booking_id"`
	Brand      string    `json:"brand"`
	UnitID     string    `json:"unit_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	PriceCents int64     `json:"price_cents"`
	Currency   string    `json:"currency"`
}

type pushBookingResponse struct {
	ChannelBookingID string `json:"channel_booking_id"`
}

func (c *Client) PushBooking(ctx context.Context, b *booking.Booking) (string, error) {
	body, err := json.Marshal(pushBookingRequest{
		BookingID:  b.ID().String(),
		Brand:      b.Brand().String(),
		UnitID:     b.UnitID().String(),
		GuestName:  b.Guest().Name(),
		GuestEmail: b.Guest().Email(),
		CheckIn:    b.Stay().CheckIn(),
		CheckOut:   b.Stay().CheckOut(),
		PriceCents: b.TotalPrice().Cents(),
		Currency:   b.TotalPrice().Currency(),
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to encode channel push")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bookings", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(err, "failed to build channel request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "channel request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.New(fmt.Sprintf("channel returned %d: %s", resp.StatusCode, snippet))
	}

	var out pushBookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.Wrap(err, "failed to decode channel response")
	}
	if out.ChannelBookingID == "" {
		return "", errs.New("channel response missing channel_booking_id")
	}
	return out.ChannelBookingID, nil
}

var _ commands.ChannelClient = (*Client)(nil)
