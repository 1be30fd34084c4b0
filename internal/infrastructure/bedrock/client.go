package bedrock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/domain/souvenir"
	"github.com/janhq/souvenir-api/internal/infrastructure/metrics"
	"github.com/janhq/souvenir-api/internal/infrastructure/observability"
)

// Client invokes models through the Bedrock Runtime API. It is built once per
// process and is safe for concurrent use.
type Client struct {
	client *bedrockruntime.Client
	region string
	log    zerolog.Logger
}

var _ souvenir.Invoker = (*Client)(nil)

func NewClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Client, error) {
	logger := log.With().Str("component", "bedrock-client").Logger()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.BedrockRegion),
		awsconfig.WithRetryMaxAttempts(cfg.BedrockMaxAttempts),
	}
	if cfg.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.BedrockAccessKeyID, cfg.BedrockSecretKey, cfg.BedrockSessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.BedrockEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BedrockEndpoint)
		}
	})

	logger.Info().
		Str("region", cfg.BedrockRegion).
		Str("endpoint", cfg.BedrockEndpoint).
		Bool("static_credentials", cfg.HasStaticCredentials()).
		Msg("bedrock runtime client created")

	return &Client{
		client: client,
		region: cfg.BedrockRegion,
		log:    logger,
	}, nil
}

// InvokeModel performs a synchronous InvokeModel call.
func (c *Client) InvokeModel(ctx context.Context, req souvenir.InvokeRequest) (*souvenir.InvokeResponse, error) {
	ctx, span := observability.Tracer().Start(ctx, "bedrock.InvokeModel",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.ModelIDKey.String(req.ModelID),
			attribute.String("cloud.region", c.region),
			attribute.Int("bedrock.request_bytes", len(req.Body)),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.ModelID),
		ContentType: aws.String(req.ContentType),
		Accept:      aws.String(req.Accept),
		Body:        req.Body,
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordModelInvocation(req.ModelID, "error", elapsed.Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "invoke model failed")
		c.log.Error().Err(err).Str("model_id", req.ModelID).Dur("duration", elapsed).Msg("invoke model failed")
		return nil, err
	}

	metrics.RecordModelInvocation(req.ModelID, "success", elapsed.Seconds())
	span.SetAttributes(attribute.Int("bedrock.response_bytes", len(out.Body)))
	c.log.Debug().Str("model_id", req.ModelID).Dur("duration", elapsed).Int("bytes", len(out.Body)).Msg("invoke model completed")

	return &souvenir.InvokeResponse{
		ContentType: aws.ToString(out.ContentType),
		Body:        out.Body,
	}, nil
}
