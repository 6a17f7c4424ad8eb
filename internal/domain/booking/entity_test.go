//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusPending, actual.Status())
		assert.Equal(t, booking.PaymentInitiated, actual.PaymentStatus())
		assert.Equal(t, 3, actual.Nights())
		assert.Equal(t, int64(36000), actual.TotalPrice().Cents())
		assert.Equal(t, "EUR", actual.TotalPrice().Currency())
		assert.Nil(t, actual.ChannelBookingID())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
	})

	t.Run("bank transfer starts awaiting settlement", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().
			WithPaymentMethod(booking.PaymentMethodBankTransfer).
			BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, booking.PaymentAwaitingTransfer, actual.PaymentStatus())
	})

	t.Run("night bounds", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.BookingBuilder)
			errIs  error
		}{
			{
				name:   "below minimum",
				mutate: func(b *builder.BookingBuilder) { b.WithNightBounds(5, 30) },
				errIs:  booking.ErrNightsOutOfRange,
			},
			{
				name:   "above maximum",
				mutate: func(b *builder.BookingBuilder) { b.WithNightBounds(1, 2) },
				errIs:  booking.ErrNightsOutOfRange,
			},
			{
				name:   "exactly at minimum",
				mutate: func(b *builder.BookingBuilder) { b.WithNightBounds(3, 30) },
			},
			{
				name:   "exactly at maximum",
				mutate: func(b *builder.BookingBuilder) { b.WithNightBounds(1, 3) },
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				actual, err := builder.NewBookingBuilder().With(tc.mutate).BuildDomain()
				if tc.errIs == nil {
					require.NoError(t, err)
					require.NotNil(t, actual)
				} else {
					require.Nil(t, actual)
					require.ErrorIs(t, err, tc.errIs)
				}
			})
		}
	})

	t.Run("invalid payment method", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().
			WithPaymentMethod("crypto").
			BuildDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, booking.ErrInvalidPaymentInput)
	})

	t.Run("monthly pricing amortizes over a nominal month", func(t *testing.T) {
		b := builder.NewBookingBuilder().AsMonthlyPriced()
		b.WithStay(
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		)

		actual, err := b.BuildDomain()
		require.NoError(t, err)
		// 300000 cents per month / 30 nights = 10000 per night, 30 nights stay.
		assert.Equal(t, int64(300000), actual.TotalPrice().Cents())
	})

	t.Run("missing rate for pricing basis", func(t *testing.T) {
		b := builder.NewBookingBuilder().AsMonthlyPriced()
		b.MonthlyRate = nil
		b.WithStay(
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		)

		actual, err := b.BuildDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, booking.ErrUnitWithoutRate)
	})

	t.Run("UUID uniqueness", func(t *testing.T) {
		first, err1 := builder.NewBookingBuilder().BuildDomain()
		second, err2 := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, first.ID(), second.ID())
	})
}

func TestBookingTransitions(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	newPending := func(t *testing.T) *booking.Booking {
		t.Helper()
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		return b
	}

	t.Run("full stay lifecycle", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.CheckIn(now))
		require.NoError(t, b.CheckOut(now))
		assert.Equal(t, booking.StatusCheckedOut, b.Status())
		assert.True(t, b.IsActive())
	})

	t.Run("no-show from confirmed", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.MarkNoShow(now))
		assert.Equal(t, booking.StatusNoShow, b.Status())
		assert.False(t, b.IsActive())
	})

	t.Run("cancel is allowed until check-in", func(t *testing.T) {
		pending := newPending(t)
		require.NoError(t, pending.Cancel(now))
		assert.Equal(t, booking.StatusCancelled, pending.Status())
		assert.False(t, pending.IsActive())

		confirmed := newPending(t)
		require.NoError(t, confirmed.Confirm(now))
		require.NoError(t, confirmed.Cancel(now))
	})

	t.Run("cancel after check-in is rejected", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.CheckIn(now))
		require.ErrorIs(t, b.Cancel(now), booking.ErrInvalidTransition)
	})

	t.Run("cancel twice is rejected", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Cancel(now))
		require.ErrorIs(t, b.Cancel(now), booking.ErrInvalidTransition)
	})

	t.Run("skipping states is rejected", func(t *testing.T) {
		b := newPending(t)
		require.ErrorIs(t, b.CheckIn(now), booking.ErrInvalidTransition)
		require.ErrorIs(t, b.CheckOut(now), booking.ErrInvalidTransition)
		require.ErrorIs(t, b.MarkNoShow(now), booking.ErrInvalidTransition)
	})
}

func TestAttachChannelRef(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("first assignment sticks", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.AttachChannelRef("CH-1001", now))
		require.NotNil(t, b.ChannelBookingID())
		assert.Equal(t, "CH-1001", *b.ChannelBookingID())
	})

	t.Run("same ref is idempotent", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.AttachChannelRef("CH-1001", now))
		require.NoError(t, b.AttachChannelRef("CH-1001", now))
	})

	t.Run("different ref is rejected", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.AttachChannelRef("CH-1001", now))
		require.ErrorIs(t, b.AttachChannelRef("CH-2002", now), booking.ErrChannelRefAssigned)
		assert.Equal(t, "CH-1001", *b.ChannelBookingID())
	})
}
