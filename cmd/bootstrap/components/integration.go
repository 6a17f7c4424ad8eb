package components

import (
	"context"

	"stayhub/internal/infra/channel"
	"stayhub/internal/infra/db"
	"stayhub/internal/infra/geocode"
	"stayhub/internal/infra/mq"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"go.uber.org/fx"
)

// IntegrationModule wires the outward-facing collaborators: the channel
// manager client, the event publisher and the geocode cache. Each can be
// switched off by configuration; consumers treat a nil port as disabled.
var IntegrationModule = fx.Module("integration",
	fx.Provide(
		NewChannelClient,
		NewEventPublisher,
		NewGeocodeCache,
		fx.Annotate(
			func(c *geocode.Cache) *geocode.Cache { return c },
			fx.As(new(commands.AddressInvalidator)),
		),
	),
)

func NewChannelClient(cfg config.Config) commands.ChannelClient {
	if !cfg.Channel.Enabled {
		return nil
	}
	return channel.NewClient(cfg.Channel)
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) (commands.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}

	publisher, cleanup, err := mq.NewPublisher(cfg.MQ)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return publisher, nil
}

func NewGeocodeCache(pool db.DBTX, cfg config.Config, clk clock.Clock) *geocode.Cache {
	resolver := geocode.NewHTTPResolver(cfg.Geocode.BaseURL, cfg.Geocode.Timeout)
	return geocode.NewCache(pool, resolver, cfg.Geocode, clk)
}
