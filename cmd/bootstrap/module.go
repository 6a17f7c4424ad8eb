package bootstrap

import (
	"stayhub/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	BrandModule,
	components.RepositoryModule,
	components.IntegrationModule,
	components.UseCaseModule,
	components.WorkerModule,
	components.HandlerModule,
)
