package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/souvenir-api/internal/config"
)

// TracerName identifies spans emitted by this service.
const TracerName = "github.com/janhq/souvenir-api"

// Attribute keys shared by the service resource and Bedrock spans.
const (
	ModelIDKey     = attribute.Key("bedrock.model_id")
	RuntimeModeKey = attribute.Key("souvenir.runtime_mode")
)

// Shutdown flushes pending spans and stops the exporter.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs the OTLP trace pipeline when ENABLE_TRACING is set and an
// endpoint is configured. Otherwise the global no-op provider stays in place.
func Setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Shutdown, error) {
	logger := log.With().Str("component", "observability").Logger()

	if !cfg.EnableTracing || cfg.OTLPEndpoint == "" {
		logger.Info().Bool("enabled", cfg.EnableTracing).Msg("tracing disabled")
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(ResourceAttributes(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info().
		Str("endpoint", cfg.OTLPEndpoint).
		Str("model_id", cfg.BedrockModelID).
		Msg("tracing enabled")

	return tp.Shutdown, nil
}

// ResourceAttributes describes the running service: its identity, the Bedrock
// model it calls and, under Lambda, the function it runs as.
func ResourceAttributes(cfg *config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
		semconv.CloudProviderAWS,
		semconv.CloudRegion(cfg.BedrockRegion),
		ModelIDKey.String(cfg.BedrockModelID),
	}

	if cfg.UseLambda() {
		attrs = append(attrs,
			RuntimeModeKey.String(config.RuntimeModeLambda),
			semconv.CloudPlatformAWSLambda,
		)
		if lambdacontext.FunctionName != "" {
			attrs = append(attrs, semconv.FaaSName(lambdacontext.FunctionName))
		}
		if lambdacontext.FunctionVersion != "" {
			attrs = append(attrs, semconv.FaaSVersion(lambdacontext.FunctionVersion))
		}
		return attrs
	}

	return append(attrs, RuntimeModeKey.String(config.RuntimeModeHTTP))
}

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
