package components

import (
	"stayhub/internal/handler"
	"stayhub/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewWebhookHandler,
		api.NewUnitHandler,
	),
	fx.Invoke(handler.NewRouter),
)
