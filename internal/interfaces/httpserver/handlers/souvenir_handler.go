package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/interfaces/lambdahandler"
)

// SouvenirHandler forwards plain HTTP requests to the Lambda handler so the
// function can be exercised locally without API Gateway.
type SouvenirHandler struct {
	events *lambdahandler.Handler
	log    zerolog.Logger
}

func NewSouvenirHandler(events *lambdahandler.Handler, log zerolog.Logger) *SouvenirHandler {
	return &SouvenirHandler{
		events: events,
		log:    log.With().Str("component", "souvenir-http-handler").Logger(),
	}
}

// Consult handles POST /v1/souvenirs with a {"prefecture": "..."} body.
func (h *SouvenirHandler) Consult(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Msg("read request body")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read request body", "error": err.Error()})
		return
	}

	event := lambdahandler.InboundEvent{
		Path:       c.Request.URL.Path,
		HTTPMethod: c.Request.Method,
		Headers:    flattenHeaders(c.Request.Header),
	}
	if len(raw) > 0 {
		event = lambdahandler.NewStringBodyEvent(c.Request.Method, c.Request.URL.Path, string(raw))
		event.Headers = flattenHeaders(c.Request.Header)
	}
	event.RequestContext.RequestID = uuid.NewString()
	event.RequestContext.Stage = "local"

	resp := h.events.Process(c.Request.Context(), event)
	for key, value := range resp.Headers {
		c.Header(key, value)
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}

func flattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for key := range header {
		out[key] = header.Get(key)
	}
	return out
}
