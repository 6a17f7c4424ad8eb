package bootstrap

import (
	"stayhub/internal/domain/brand"
	"stayhub/internal/pkg/config"

	"go.uber.org/fx"
)

var BrandModule = fx.Module("brand",
	fx.Provide(
		NewBrandRegistry,
	),
)

// NewBrandRegistry builds the immutable brand registry from configuration.
// Registry validation failing here aborts startup, which is the point: a
// miswired brand must never serve traffic.
func NewBrandRegistry(cfg config.Config) (*brand.Registry, error) {
	defs := make([]brand.Definition, 0, len(cfg.Brands.Specs))
	for _, spec := range cfg.Brands.Specs {
		defs = append(defs, brand.Definition{
			Name:         brand.Brand(spec.Name),
			Mode:         brand.Mode(spec.Mode),
			Writer:       spec.Writer,
			MinNights:    spec.MinNights,
			MaxNights:    spec.MaxNights,
			PricingBasis: brand.PricingBasis(spec.PricingBasis),
			ChannelSync:  spec.ChannelSync,
		})
	}
	return brand.NewRegistry(defs)
}
