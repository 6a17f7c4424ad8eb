package brand

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBrand   = errors.New("unknown brand")
	ErrInvalidMode    = errors.New("invalid brand mode")
	ErrMissingWriter  = errors.New("brand has no designated writer")
	ErrInvalidNights  = errors.New("invalid night bounds")
	ErrInvalidPricing = errors.New("invalid pricing basis")
)

type Brand string

func (b Brand) String() string {
	return string(b)
}

// Mode states which system owns booking writes for a brand: the hub itself
// (integrated) or an external channel adapter (standalone).
type Mode string

const (
	ModeIntegrated Mode = "integrated"
	ModeStandalone Mode = "standalone"
)

func (m Mode) IsValid() bool {
	return m == ModeIntegrated || m == ModeStandalone
}

type PricingBasis string

const (
	PricingNightly PricingBasis = "nightly"
	PricingMonthly PricingBasis = "monthly"
)

func (p PricingBasis) IsValid() bool {
	return p == PricingNightly || p == PricingMonthly
}

// Definition is the static configuration of one storefront. Immutable at
// runtime; misconfiguration is fatal at startup, never a request-time error.
type Definition struct {
	Name         Brand
	Mode         Mode
	Writer       string
	MinNights    int
	MaxNights    int
	PricingBasis PricingBasis
	ChannelSync  bool
}

type Registry struct {
	brands map[Brand]Definition
}

func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("brand registry requires at least one brand")
	}
	brands := make(map[Brand]Definition, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: empty brand name", ErrUnknownBrand)
		}
		if !d.Mode.IsValid() {
			return nil, fmt.Errorf("%w: brand %q has mode %q", ErrInvalidMode, d.Name, d.Mode)
		}
		if d.Writer == "" {
			return nil, fmt.Errorf("%w: brand %q", ErrMissingWriter, d.Name)
		}
		if d.MinNights < 1 || d.MaxNights < d.MinNights {
			return nil, fmt.Errorf("%w: brand %q has bounds [%d,%d]", ErrInvalidNights, d.Name, d.MinNights, d.MaxNights)
		}
		if !d.PricingBasis.IsValid() {
			return nil, fmt.Errorf("%w: brand %q has basis %q", ErrInvalidPricing, d.Name, d.PricingBasis)
		}
		if _, dup := brands[d.Name]; dup {
			return nil, fmt.Errorf("duplicate brand %q", d.Name)
		}
		brands[d.Name] = d
	}
	return &Registry{brands: brands}, nil
}

func (r *Registry) Lookup(b Brand) (Definition, error) {
	def, ok := r.brands[b]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownBrand, b)
	}
	return def, nil
}

func (r *Registry) ModeOf(b Brand) (Mode, error) {
	def, err := r.Lookup(b)
	if err != nil {
		return "", err
	}
	return def.Mode, nil
}

func (r *Registry) WriterOf(b Brand) (string, error) {
	def, err := r.Lookup(b)
	if err != nil {
		return "", err
	}
	return def.Writer, nil
}

// IsLocalWriteAllowed reports whether this hub is the designated booking
// writer for the brand.
func (r *Registry) IsLocalWriteAllowed(b Brand) bool {
	def, ok := r.brands[b]
	return ok && def.Mode == ModeIntegrated
}

func (r *Registry) Brands() []Definition {
	out := make([]Definition, 0, len(r.brands))
	for _, d := range r.brands {
		out = append(out, d)
	}
	return out
}
