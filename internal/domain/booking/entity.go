package booking

import (
	"errors"
	"fmt"
	"time"

	"stayhub/internal/domain/brand"
	"stayhub/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrNightsOutOfRange    = errors.New("nights outside brand bounds")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrChannelRefAssigned  = errors.New("channel booking reference already assigned")
	ErrUnitWithoutRate     = errors.New("unit has no rate for the brand pricing basis")
	ErrInvalidPaymentInput = errors.New("invalid payment method")
)

// UnitSpec is the slice of the unit catalog the booking core reads: identity,
// pricing basis inputs and currency. The catalog itself is owned elsewhere.
type UnitSpec struct {
	ID               uuid.UUID
	Brand            brand.Brand
	NightlyRateCents *int64
	MonthlyRateCents *int64
	Currency         string
}

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

type Booking struct {
	id               uuid.UUID
	brand            brand.Brand
	unitID           uuid.UUID
	guest            Guest
	stay             StayRange
	totalPrice       Money
	status           Status
	paymentStatus    PaymentStatus
	paymentMethod    PaymentMethod
	idempotencyKey   string
	requestHash      string
	channelBookingID *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking applies the pure domain gates: night bounds for the brand and
// price derivation from the unit's pricing basis. Writer-lock and
// availability are checked by the caller before and after this step.
func NewBooking(
	services *Services,
	def brand.Definition,
	unit UnitSpec,
	guest Guest,
	stay StayRange,
	method PaymentMethod,
	idempotencyKey string,
	requestHash string,
) (*Booking, error) {
	nights := stay.Nights()
	if nights < def.MinNights || nights > def.MaxNights {
		return nil, fmt.Errorf("%w: %d nights, brand %q allows [%d,%d]",
			ErrNightsOutOfRange, nights, def.Name, def.MinNights, def.MaxNights)
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentInput, method)
	}

	perNight, err := services.PriceCalculator.PricePerNight(def, unit)
	if err != nil {
		return nil, err
	}

	now := services.Clock.Now()
	return &Booking{
		id:             uuid.New(),
		brand:          def.Name,
		unitID:         unit.ID,
		guest:          guest,
		stay:           stay,
		totalPrice:     perNight.MultiplyNights(nights),
		status:         StatusPending,
		paymentStatus:  method.InitialPaymentStatus(),
		paymentMethod:  method,
		idempotencyKey: idempotencyKey,
		requestHash:    requestHash,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	b brand.Brand,
	unitID uuid.UUID,
	guest Guest,
	stay StayRange,
	totalPrice Money,
	status Status,
	paymentStatus PaymentStatus,
	paymentMethod PaymentMethod,
	idempotencyKey, requestHash string,
	channelBookingID *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		brand:            b,
		unitID:           unitID,
		guest:            guest,
		stay:             stay,
		totalPrice:       totalPrice,
		status:           status,
		paymentStatus:    paymentStatus,
		paymentMethod:    paymentMethod,
		idempotencyKey:   idempotencyKey,
		requestHash:      requestHash,
		channelBookingID: channelBookingID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) Brand() brand.Brand           { return b.brand }
func (b *Booking) UnitID() uuid.UUID            { return b.unitID }
func (b *Booking) Guest() Guest                 { return b.guest }
func (b *Booking) Stay() StayRange              { return b.stay }
func (b *Booking) Nights() int                  { return b.stay.Nights() }
func (b *Booking) TotalPrice() Money            { return b.totalPrice }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }
func (b *Booking) IdempotencyKey() string       { return b.idempotencyKey }
func (b *Booking) RequestHash() string          { return b.requestHash }
func (b *Booking) ChannelBookingID() *string    { return b.channelBookingID }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

func (b *Booking) IsActive() bool {
	return b.status.BlocksAvailability()
}

// Forward status transitions; the only fields reconciliation may touch later
// are the status and the channel booking reference.

func (b *Booking) Confirm(now time.Time) error {
	return b.transition(StatusPending, StatusConfirmed, now)
}

func (b *Booking) CheckIn(now time.Time) error {
	return b.transition(StatusConfirmed, StatusCheckedIn, now)
}

func (b *Booking) CheckOut(now time.Time) error {
	return b.transition(StatusCheckedIn, StatusCheckedOut, now)
}

func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCheckedIn || b.status == StatusCheckedOut || b.status.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, StatusCancelled)
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkNoShow(now time.Time) error {
	return b.transition(StatusConfirmed, StatusNoShow, now)
}

// AttachChannelRef records the external channel manager's booking id. It is
// write-once: reconciliation replays must not clobber an assigned reference.
func (b *Booking) AttachChannelRef(ref string, now time.Time) error {
	if b.channelBookingID != nil && *b.channelBookingID != ref {
		return ErrChannelRefAssigned
	}
	b.channelBookingID = &ref
	b.updatedAt = now
	return nil
}

func (b *Booking) transition(from, to Status, now time.Time) error {
	if b.status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, to)
	}
	b.status = to
	b.updatedAt = now
	return nil
}
