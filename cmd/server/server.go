package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/domain/souvenir"
	"github.com/janhq/souvenir-api/internal/infrastructure/bedrock"
	"github.com/janhq/souvenir-api/internal/infrastructure/logger"
	"github.com/janhq/souvenir-api/internal/infrastructure/observability"
	"github.com/janhq/souvenir-api/internal/interfaces/httpserver"
	"github.com/janhq/souvenir-api/internal/interfaces/lambdahandler"
)

type Application struct {
	cfg        *config.Config
	handler    *lambdahandler.Handler
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(cfg *config.Config, handler *lambdahandler.Handler, httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		cfg:        cfg,
		handler:    handler,
		httpServer: httpServer,
		log:        log,
	}
}

// Start hands control to the Lambda runtime, or serves HTTP locally until ctx
// is cancelled.
func (a *Application) Start(ctx context.Context) error {
	if a.cfg.UseLambda() {
		a.log.Info().Msg("starting lambda runtime")
		lambda.StartWithOptions(a.handler.Handle, lambda.WithContext(ctx))
		return nil
	}
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	bedrockClient, err := bedrock.NewClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize bedrock client")
	}

	service := provideService(ctx, cfg, bedrockClient, log)
	handler := lambdahandler.NewHandler(cfg, service, log)
	httpServer := httpserver.New(cfg, log, handler)
	app := NewApplication(cfg, handler, httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideService builds the recommendation service and reports an unsupported
// model id at startup. Requests are still answered, with a 500 naming the id.
func provideService(ctx context.Context, cfg *config.Config, invoker souvenir.Invoker, log zerolog.Logger) *souvenir.Service {
	service := souvenir.NewService(cfg, invoker, log)
	if err := service.CheckModel(ctx); err != nil {
		log.Warn().Str("model_id", service.ModelID()).Msg("unsupported Bedrock model ID configured")
		return service
	}
	log.Info().
		Str("model_id", service.ModelID()).
		Str("model_family", service.Family().Name).
		Msg("bedrock model resolved")
	return service
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
