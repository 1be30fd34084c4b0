package souvenir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/infrastructure/telemetry"
	"github.com/janhq/souvenir-api/internal/utils/platformerrors"
)

const (
	msgUnsupportedModel = "Unsupported Bedrock model ID configured"
	msgBackendFailure   = "Error processing Bedrock API response"

	logPreviewRunes = 100
)

var errClientNotInitialized = errors.New("bedrock runtime client is not initialized")

// Option customizes a Service.
type Option func(*Service)

// WithFamilies replaces the default family registry.
func WithFamilies(families ...Family) Option {
	return func(s *Service) {
		s.families = families
	}
}

// Service builds prompts, invokes the configured model and extracts its answer.
type Service struct {
	modelID  string
	families []Family
	family   *Family
	invoker  Invoker
	scrub    *telemetry.Sanitizer
	log      zerolog.Logger
}

func NewService(cfg *config.Config, invoker Invoker, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		modelID:  cfg.BedrockModelID,
		families: DefaultFamilies(),
		invoker:  invoker,
		scrub:    telemetry.NewSanitizer(telemetry.ContentLevel(cfg.LogContentLevel), cfg.ServiceName),
		log:      log.With().Str("component", "souvenir-service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.family, _ = ResolveFamily(s.modelID, s.families)
	return s
}

// ModelID returns the configured model id.
func (s *Service) ModelID() string {
	return s.modelID
}

// Family returns the resolved family, or nil when the model id is unsupported.
func (s *Service) Family() *Family {
	return s.family
}

// CheckModel fails when no family can build a request for the configured model.
func (s *Service) CheckModel(ctx context.Context) error {
	if s.family != nil && s.family.BuildRequest != nil {
		return nil
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
		msgUnsupportedModel, nil, platformerrors.CodeUnsupportedModel,
		map[string]any{platformerrors.ContextModelID: s.modelID})
}

// Recommend asks the model for souvenir suggestions for prefecture.
func (s *Service) Recommend(ctx context.Context, prefecture string) (*Recommendation, error) {
	if err := s.CheckModel(ctx); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(prefecture)
	s.log.Info().
		Str("model_id", s.modelID).
		Str("request_format", s.family.Name).
		Msg("using model request format")
	s.log.Debug().Str("prompt", s.scrub.Text(prompt)).Msg("generated prompt")

	body, err := json.Marshal(s.family.BuildRequest(prompt))
	if err != nil {
		return nil, s.backendError(ctx, fmt.Errorf("encode model request: %w", err), platformerrors.CodeBackendCallFailure)
	}

	if s.invoker == nil {
		return nil, s.backendError(ctx, errClientNotInitialized, platformerrors.CodeBackendCallFailure)
	}

	s.log.Info().Str("model_id", s.modelID).Msg("invoking model")
	resp, err := s.invoker.InvokeModel(ctx, InvokeRequest{
		ModelID:     s.modelID,
		ContentType: jsonContentType,
		Accept:      jsonContentType,
		Body:        body,
	})
	if err != nil {
		return nil, s.backendError(ctx, err, platformerrors.CodeBackendCallFailure)
	}

	s.log.Debug().Str("model_id", s.modelID).Str("raw_response", s.scrub.Text(string(resp.Body))).Msg("received raw model response")

	text, err := ExtractText(s.family, s.modelID, resp.Body)
	if err != nil {
		return nil, s.backendError(ctx, err, platformerrors.CodeResponseParseFailure)
	}

	s.log.Info().
		Str("model_id", s.modelID).
		Str("generated_text", s.scrub.Text(truncateRunes(text, logPreviewRunes))).
		Msg("parsed model response")

	return &Recommendation{
		Prefecture:     prefecture,
		Recommendation: text,
	}, nil
}

func (s *Service) backendError(ctx context.Context, err error, code string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		msgBackendFailure, err, code,
		map[string]any{platformerrors.ContextModelID: s.modelID})
}
