//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayhub/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, checkIn, checkOut time.Time) booking.StayRange {
	t.Helper()
	stay, err := booking.NewStayRange(checkIn, checkOut)
	require.NoError(t, err)
	return stay
}

func TestStayRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		stay := mustStay(t, day(2026, 3, 10), day(2026, 3, 13))
		assert.Equal(t, 3, stay.Nights())
		assert.Equal(t, "[2026-03-10,2026-03-13)", stay.String())
	})

	t.Run("check-out must be after check-in", func(t *testing.T) {
		_, err := booking.NewStayRange(day(2026, 3, 10), day(2026, 3, 10))
		require.Error(t, err)

		_, err = booking.NewStayRange(day(2026, 3, 10), day(2026, 3, 9))
		require.Error(t, err)
	})

	t.Run("time-of-day is truncated to the date", func(t *testing.T) {
		stay := mustStay(t,
			time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 13, 11, 0, 0, 0, time.UTC),
		)
		assert.Equal(t, day(2026, 3, 10), stay.CheckIn())
		assert.Equal(t, day(2026, 3, 13), stay.CheckOut())
		assert.Equal(t, 3, stay.Nights())
	})

	t.Run("single night", func(t *testing.T) {
		stay := mustStay(t, day(2026, 3, 10), day(2026, 3, 11))
		assert.Equal(t, 1, stay.Nights())
	})
}

func TestStayRangeOverlaps(t *testing.T) {
	base := mustStay(t, day(2026, 3, 10), day(2026, 3, 13))

	cases := []struct {
		name     string
		other    booking.StayRange
		overlaps bool
	}{
		{
			name:     "identical range",
			other:    mustStay(t, day(2026, 3, 10), day(2026, 3, 13)),
			overlaps: true,
		},
		{
			name:     "contained range",
			other:    mustStay(t, day(2026, 3, 11), day(2026, 3, 12)),
			overlaps: true,
		},
		{
			name:     "overlapping tail",
			other:    mustStay(t, day(2026, 3, 12), day(2026, 3, 15)),
			overlaps: true,
		},
		{
			name:     "overlapping head",
			other:    mustStay(t, day(2026, 3, 8), day(2026, 3, 11)),
			overlaps: true,
		},
		{
			name:     "back-to-back after check-out",
			other:    mustStay(t, day(2026, 3, 13), day(2026, 3, 16)),
			overlaps: false,
		},
		{
			name:     "back-to-back before check-in",
			other:    mustStay(t, day(2026, 3, 7), day(2026, 3, 10)),
			overlaps: false,
		},
		{
			name:     "fully disjoint",
			other:    mustStay(t, day(2026, 4, 1), day(2026, 4, 5)),
			overlaps: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base))
		})
	}
}

func TestGuest(t *testing.T) {
	t.Run("valid guest", func(t *testing.T) {
		g, err := booking.NewGuest("  Ada Nilsen ", " ada@example.com ", "+4712345678")
		require.NoError(t, err)
		assert.Equal(t, "Ada Nilsen", g.Name())
		assert.Equal(t, "ada@example.com", g.Email())
		assert.Equal(t, "+4712345678", g.Phone())
	})

	t.Run("phone is optional", func(t *testing.T) {
		g, err := booking.NewGuest("Ada", "ada@example.com", "")
		require.NoError(t, err)
		assert.Empty(t, g.Phone())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := booking.NewGuest("   ", "ada@example.com", "")
		require.Error(t, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := booking.NewGuest("Ada", "not-an-email", "")
		require.Error(t, err)
	})
}

func TestMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := booking.NewMoney(12000, "eur")
		require.NoError(t, err)
		assert.Equal(t, int64(12000), m.Cents())
		assert.Equal(t, "EUR", m.Currency())
	})

	t.Run("zero is allowed", func(t *testing.T) {
		_, err := booking.NewMoney(0, "EUR")
		require.NoError(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := booking.NewMoney(-1, "EUR")
		require.Error(t, err)
	})

	t.Run("bad currency code", func(t *testing.T) {
		_, err := booking.NewMoney(100, "EURO")
		require.Error(t, err)
	})

	t.Run("multiply by nights", func(t *testing.T) {
		m, err := booking.NewMoney(12000, "EUR")
		require.NoError(t, err)

		total := m.MultiplyNights(3)
		assert.Equal(t, int64(36000), total.Cents())
		assert.Equal(t, "EUR", total.Currency())
	})
}
