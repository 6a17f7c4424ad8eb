package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StayRange is a half-open [checkIn, checkOut) date range. Check-out day is
// exclusive, so a stay checking out on day N does not occupy day N.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in := truncateToDate(checkIn)
	out := truncateToDate(checkOut)
	if !out.After(in) {
		return StayRange{}, errors.New("check-out must be after check-in")
	}
	return StayRange{checkIn: in, checkOut: out}, nil
}

func (r StayRange) CheckIn() time.Time {
	return r.checkIn
}

func (r StayRange) CheckOut() time.Time {
	return r.checkOut
}

// Nights is the number of occupied nights, ceil of the range length in days.
func (r StayRange) Nights() int {
	hours := r.checkOut.Sub(r.checkIn).Hours()
	nights := int(hours / 24)
	if hours > float64(nights)*24 {
		nights++
	}
	return nights
}

// Overlaps uses half-open semantics on both ends: back-to-back stays where
// one checks out the day the other checks in do not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.checkIn.Before(other.checkOut) && r.checkOut.After(other.checkIn)
}

func (r StayRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.checkIn.Format("2006-01-02"), r.checkOut.Format("2006-01-02"))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Guest struct {
	name  string
	email string
	phone string
}

func NewGuest(name, email, phone string) (Guest, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return Guest{}, errors.New("guest name is required")
	}
	if !strings.Contains(email, "@") {
		return Guest{}, errors.New("guest email is invalid")
	}
	return Guest{name: name, email: email, phone: strings.TrimSpace(phone)}, nil
}

func (g Guest) Name() string  { return g.name }
func (g Guest) Email() string { return g.email }
func (g Guest) Phone() string { return g.phone }

type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	if len(currency) != 3 {
		return Money{}, errors.New("currency must be a 3-letter code")
	}
	return Money{cents: cents, currency: strings.ToUpper(currency)}, nil
}

func (m Money) Cents() int64     { return m.cents }
func (m Money) Currency() string { return m.currency }

func (m Money) MultiplyNights(nights int) Money {
	return Money{cents: m.cents * int64(nights), currency: m.currency}
}
