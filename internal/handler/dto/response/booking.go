package response

import (
	"time"

	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	Brand            string    `json:"brand"`
	UnitID           uuid.UUID `json:"unit_id"`
	UnitName         string    `json:"unit_name"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Nights           int       `json:"nights"`
	TotalPriceCents  int64     `json:"total_price_cents"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	ChannelBookingID *string   `json:"channel_booking_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type BookingListResponse struct {
	ID              uuid.UUID `json:"id"`
	Brand           string    `json:"brand"`
	UnitName        string    `json:"unit_name"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type QuoteResponse struct {
	Brand              string    `json:"brand"`
	UnitID             uuid.UUID `json:"unit_id"`
	CheckIn            time.Time `json:"check_in"`
	CheckOut           time.Time `json:"check_out"`
	Nights             int       `json:"nights"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalPriceCents    int64     `json:"total_price_cents"`
	Currency           string    `json:"currency"`
	Available          bool      `json:"available"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               rm.ID,
		Brand:            rm.Brand,
		UnitID:           rm.UnitID,
		UnitName:         rm.UnitName,
		GuestName:        rm.GuestName,
		GuestEmail:       rm.GuestEmail,
		CheckIn:          rm.CheckIn,
		CheckOut:         rm.CheckOut,
		Nights:           rm.Nights,
		TotalPriceCents:  rm.TotalPriceCents,
		Currency:         rm.Currency,
		Status:           rm.Status,
		PaymentStatus:    rm.PaymentStatus,
		ChannelBookingID: rm.ChannelBookingID,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:              rm.ID,
		Brand:           rm.Brand,
		UnitName:        rm.UnitName,
		CheckIn:         rm.CheckIn,
		CheckOut:        rm.CheckOut,
		Status:          rm.Status,
		TotalPriceCents: rm.TotalPriceCents,
		CreatedAt:       rm.CreatedAt,
	}
}

func FromQuoteView(rm *queries.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		Brand:              rm.Brand,
		UnitID:             rm.UnitID,
		CheckIn:            rm.CheckIn,
		CheckOut:           rm.CheckOut,
		Nights:             rm.Nights,
		PricePerNightCents: rm.PricePerNightCents,
		TotalPriceCents:    rm.TotalPriceCents,
		Currency:           rm.Currency,
		Available:          rm.Available,
	}
}
