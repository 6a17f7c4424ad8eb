package booking

import (
	"fmt"

	"stayhub/internal/domain/brand"
)

// A monthly rate is amortized over a nominal month when the brand prices
// stays per month but bookings are charged per night.
const nominalMonthNights = 30

type PriceCalculator interface {
	PricePerNight(def brand.Definition, unit UnitSpec) (Money, error)
}

type RatePriceCalculator struct{}

func NewRatePriceCalculator() *RatePriceCalculator {
	return &RatePriceCalculator{}
}

func (pc *RatePriceCalculator) PricePerNight(def brand.Definition, unit UnitSpec) (Money, error) {
	switch def.PricingBasis {
	case brand.PricingNightly:
		if unit.NightlyRateCents == nil {
			return Money{}, fmt.Errorf("%w: unit %s has no nightly rate", ErrUnitWithoutRate, unit.ID)
		}
		return NewMoney(*unit.NightlyRateCents, unit.Currency)
	case brand.PricingMonthly:
		if unit.MonthlyRateCents == nil {
			return Money{}, fmt.Errorf("%w: unit %s has no monthly rate", ErrUnitWithoutRate, unit.ID)
		}
		return NewMoney(*unit.MonthlyRateCents/nominalMonthNights, unit.Currency)
	default:
		return Money{}, fmt.Errorf("unsupported pricing basis %q", def.PricingBasis)
	}
}
