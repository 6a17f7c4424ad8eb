//go:build unit || e2e

package builder

import (
	"time"

	dombooking "stayhub/internal/domain/booking"
	"stayhub/internal/domain/brand"
	reqdto "stayhub/internal/handler/dto/request"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Brand          string
	Mode           brand.Mode
	Writer         string
	MinNights      int
	MaxNights      int
	PricingBasis   brand.PricingBasis
	UnitID         uuid.UUID
	UnitName       string
	NightlyRate    int64
	MonthlyRate    *int64
	Currency       string
	GuestName      string
	GuestEmail     string
	GuestPhone     string
	CheckIn        time.Time
	CheckOut       time.Time
	PaymentMethod  dombooking.PaymentMethod
	IdempotencyKey string
	RequestHash    string
	Now            time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		Brand:          "cityloft",
		Mode:           brand.ModeIntegrated,
		Writer:         "hub",
		MinNights:      1,
		MaxNights:      30,
		PricingBasis:   brand.PricingNightly,
		UnitID:         uuid.New(),
		UnitName:       "Loft 12",
		NightlyRate:    12000,
		Currency:       "EUR",
		GuestName:      "Ada Nilsen",
		GuestEmail:     "ada@example.com",
		GuestPhone:     "+4712345678",
		CheckIn:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:       time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		PaymentMethod:  dombooking.PaymentMethodCard,
		IdempotencyKey: "key-0123456789abcdef",
		RequestHash:    "deadbeefdeadbeef",
		Now:            now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods

func (b *BookingBuilder) BuildDefinition() brand.Definition {
	return brand.Definition{
		Name:         brand.Brand(b.Brand),
		Mode:         b.Mode,
		Writer:       b.Writer,
		MinNights:    b.MinNights,
		MaxNights:    b.MaxNights,
		PricingBasis: b.PricingBasis,
		ChannelSync:  b.Mode == brand.ModeIntegrated,
	}
}

func (b *BookingBuilder) BuildRegistry() (*brand.Registry, error) {
	return brand.NewRegistry([]brand.Definition{b.BuildDefinition()})
}

func (b *BookingBuilder) BuildUnitSpec() dombooking.UnitSpec {
	nightly := b.NightlyRate
	return dombooking.UnitSpec{
		ID:               b.UnitID,
		Brand:            brand.Brand(b.Brand),
		NightlyRateCents: &nightly,
		MonthlyRateCents: b.MonthlyRate,
		Currency:         b.Currency,
	}
}

func (b *BookingBuilder) BuildUnitSnapshot() *commands.UnitSnapshot {
	nightly := b.NightlyRate
	return &commands.UnitSnapshot{
		ID:               b.UnitID,
		Brand:            b.Brand,
		Name:             b.UnitName,
		NightlyRateCents: &nightly,
		MonthlyRateCents: b.MonthlyRate,
		Currency:         b.Currency,
		Address:          "1 Harbour St",
	}
}

func (b *BookingBuilder) BuildServices() *dombooking.Services {
	return &dombooking.Services{
		Clock:           clock.NewMockClock(b.Now),
		PriceCalculator: dombooking.NewRatePriceCalculator(),
	}
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	stay, err := dombooking.NewStayRange(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, err
	}
	guest, err := dombooking.NewGuest(b.GuestName, b.GuestEmail, b.GuestPhone)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.BuildServices(),
		b.BuildDefinition(),
		b.BuildUnitSpec(),
		guest,
		stay,
		b.PaymentMethod,
		b.IdempotencyKey,
		b.RequestHash,
	)
}

func (b *BookingBuilder) BuildCreateParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		Brand:          b.Brand,
		UnitID:         b.UnitID,
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		GuestPhone:     b.GuestPhone,
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
		PaymentMethod:  string(b.PaymentMethod),
		IdempotencyKey: b.IdempotencyKey,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		Brand:         b.Brand,
		UnitID:        b.UnitID,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		GuestPhone:    b.GuestPhone,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		PaymentMethod: string(b.PaymentMethod),
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	nights := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
	return &queries.BookingView{
		ID:              uuid.New(),
		Brand:           b.Brand,
		UnitID:          b.UnitID,
		UnitName:        b.UnitName,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Nights:          nights,
		TotalPriceCents: b.NightlyRate * int64(nights),
		Currency:        b.Currency,
		Status:          dombooking.StatusPending.String(),
		PaymentStatus:   string(b.PaymentMethod.InitialPaymentStatus()),
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

// Fluent builder methods

func (b *BookingBuilder) WithBrand(name string) *BookingBuilder {
	b.Brand = name
	return b
}

func (b *BookingBuilder) WithMode(mode brand.Mode) *BookingBuilder {
	b.Mode = mode
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithNightBounds(minNights, maxNights int) *BookingBuilder {
	b.MinNights = minNights
	b.MaxNights = maxNights
	return b
}

func (b *BookingBuilder) WithPaymentMethod(method dombooking.PaymentMethod) *BookingBuilder {
	b.PaymentMethod = method
	return b
}

func (b *BookingBuilder) WithIdempotencyKey(key string) *BookingBuilder {
	b.IdempotencyKey = key
	return b
}

func (b *BookingBuilder) AsStandalone() *BookingBuilder {
	b.Brand = "seasidehomes"
	b.Mode = brand.ModeStandalone
	b.Writer = "channel-manager"
	return b
}

func (b *BookingBuilder) AsMonthlyPriced() *BookingBuilder {
	monthly := int64(300000)
	b.PricingBasis = brand.PricingMonthly
	b.MonthlyRate = &monthly
	b.MinNights = 28
	b.MaxNights = 180
	return b
}
