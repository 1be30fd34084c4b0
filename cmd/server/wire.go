//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/domain/souvenir"
	"github.com/janhq/souvenir-api/internal/infrastructure/bedrock"
	"github.com/janhq/souvenir-api/internal/infrastructure/logger"
	"github.com/janhq/souvenir-api/internal/interfaces/httpserver"
	"github.com/janhq/souvenir-api/internal/interfaces/lambdahandler"
)

var souvenirSet = wire.NewSet(
	bedrock.NewClient,
	wire.Bind(new(souvenir.Invoker), new(*bedrock.Client)),
	provideService,
	lambdahandler.NewHandler,
)

// BuildApplication assembles the souvenir API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		souvenirSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
