package components

import (
	"stayhub/internal/domain/booking"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewRatePriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	func(clk clock.Clock, calc booking.PriceCalculator) *booking.Services {
		return &booking.Services{
			Clock:           clk,
			PriceCalculator: calc,
		}
	},
	func(cfg config.Config) config.WebhookConfig { return cfg.Webhook },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewWebhookCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)
