package request

import (
	"time"

	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	Brand         string    `json:"brand" binding:"required"`
	UnitID        uuid.UUID `json:"unit_id" binding:"required"`
	GuestName     string    `json:"guest_name" binding:"required"`
	GuestEmail    string    `json:"guest_email" binding:"required,email"`
	GuestPhone    string    `json:"guest_phone"`
	CheckIn       time.Time `json:"check_in" binding:"required"`
	CheckOut      time.Time `json:"check_out" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=card bank_transfer"`
}

func (r CreateBookingRequest) ToParams(idempotencyKey string) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		Brand:          r.Brand,
		UnitID:         r.UnitID,
		GuestName:      r.GuestName,
		GuestEmail:     r.GuestEmail,
		GuestPhone:     r.GuestPhone,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		PaymentMethod:  r.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	}
}

// UnitID stays a string here: gin's query binding cannot fill a uuid.UUID,
// so the handler parses it after binding.
type QuoteRequest struct {
	Brand    string    `form:"brand" binding:"required"`
	UnitID   string    `form:"unit_id" binding:"required"`
	CheckIn  time.Time `form:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut time.Time `form:"check_out" binding:"required" time_format:"2006-01-02"`
}
