package lambdahandler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/domain/souvenir"
	"github.com/janhq/souvenir-api/internal/infrastructure/metrics"
	"github.com/janhq/souvenir-api/internal/infrastructure/telemetry"
	"github.com/janhq/souvenir-api/internal/utils/platformerrors"
)

const (
	msgInvalidJSON       = "Invalid JSON body"
	msgMissingPrefecture = "Prefecture name is required and must be a string"
)

var nullBody = []byte("null")

// Handler turns API Gateway events into souvenir recommendations.
// Every failure is answered with a structured response; Handle never returns
// an error to the Lambda runtime.
type Handler struct {
	service       *souvenir.Service
	allowedOrigin string
	scrub         *telemetry.Sanitizer
	log           zerolog.Logger
}

func NewHandler(cfg *config.Config, service *souvenir.Service, log zerolog.Logger) *Handler {
	h := &Handler{
		service:       service,
		allowedOrigin: cfg.AllowedOrigin,
		scrub:         telemetry.NewSanitizer(telemetry.ParseContentLevel(cfg.LogContentLevel), cfg.ServiceName),
		log:           log.With().Str("component", "lambda-handler").Logger(),
	}
	h.log.Info().
		Str("allowed_origin", h.allowedOrigin).
		Str("log_content_level", string(h.scrub.Level())).
		Msg("request handler configured")
	return h
}

// Handle is the Lambda entry point.
func (h *Handler) Handle(ctx context.Context, event InboundEvent) (OutboundEvent, error) {
	start := time.Now()
	resp := h.Process(ctx, event)
	metrics.RecordRequest("lambda", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	return resp, nil
}

// Process runs one request through validation, the model call and response
// encoding.
func (h *Handler) Process(ctx context.Context, event InboundEvent) OutboundEvent {
	requestID := event.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}
	ctx = platformerrors.WithRequestID(ctx, requestID)
	log := h.log.With().Str("request_id", requestID).Logger()

	log.Info().
		Str("method", event.HTTPMethod).
		Str("path", event.Path).
		Int("body_bytes", len(event.Body)).
		Bool("base64", event.IsBase64Encoded).
		Interface("headers", h.scrub.Headers(event.Headers)).
		Msg("received event")

	if err := h.service.CheckModel(ctx); err != nil {
		return h.errorResponse(ctx, log, err)
	}

	payload, err := h.decodeBody(ctx, log, event)
	if err != nil {
		return h.errorResponse(ctx, log, err)
	}

	prefecture, ok := extractPrefecture(payload)
	if !ok {
		err := platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			msgMissingPrefecture, nil, platformerrors.CodeMissingPrefecture)
		return h.errorResponse(ctx, log, err)
	}
	log.Info().Str("prefecture", h.scrub.Text(prefecture)).Msg("processing request for prefecture")

	rec, err := h.service.Recommend(ctx, prefecture)
	if err != nil {
		return h.errorResponse(ctx, log, err)
	}

	log.Info().Msg("request completed successfully")
	return h.respond(http.StatusOK, rec)
}

// decodeBody yields the request payload. An absent body becomes an empty
// object; a non-string body is used as is.
func (h *Handler) decodeBody(ctx context.Context, log zerolog.Logger, event InboundEvent) (any, error) {
	raw := bytes.TrimSpace(event.Body)
	if len(raw) == 0 || bytes.Equal(raw, nullBody) {
		log.Warn().Msg("event body is missing")
		return map[string]any{}, nil
	}

	if raw[0] != '"' {
		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, badRequest(ctx, err)
		}
		log.Warn().Str("body", h.scrub.Text(string(raw))).Msg("event body is not a string; proceeding with raw body")
		return payload, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, badRequest(ctx, err)
	}

	data := []byte(text)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, badRequest(ctx, fmt.Errorf("decode base64 body: %w", err))
		}
		data = decoded
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, badRequest(ctx, err)
	}
	return payload, nil
}

func badRequest(ctx context.Context, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
		msgInvalidJSON, err, platformerrors.CodeBadRequestBody)
}

func extractPrefecture(payload any) (string, bool) {
	fields, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	prefecture, ok := fields["prefecture"].(string)
	if !ok || prefecture == "" {
		return "", false
	}
	return prefecture, true
}

func (h *Handler) errorResponse(ctx context.Context, log zerolog.Logger, err error) OutboundEvent {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "An unknown error occurred")
	}
	platformerrors.LogError(log, platformErr)
	status, body := platformerrors.ToErrorBody(platformErr)
	return h.respond(status, body)
}

func (h *Handler) respond(status int, payload any) OutboundEvent {
	body, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("encode response body")
		status = http.StatusInternalServerError
		body = []byte(`{"message":"An unknown error occurred"}`)
	}
	return OutboundEvent{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": h.allowedOrigin,
		},
		Body: string(body),
	}
}
