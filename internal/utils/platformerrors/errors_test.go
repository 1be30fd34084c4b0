package platformerrors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	err := NewError(ctx, LayerHandler, ErrorTypeValidation, "bad", nil, CodeMissingPrefecture)

	assert.Equal(t, "req-123", err.RequestID)
	assert.Equal(t, CodeMissingPrefecture, err.GetUUID())
	assert.Equal(t, ErrorTypeValidation, err.GetErrorType())
	assert.Contains(t, err.Error(), "[handler][VALIDATION]")
}

func TestNewErrorGeneratesUUID(t *testing.T) {
	a := NewError(context.Background(), LayerDomain, ErrorTypeInternal, "boom", nil, "")
	b := NewError(context.Background(), LayerDomain, ErrorTypeInternal, "boom", nil, "")

	assert.Len(t, a.UUID, 36)
	assert.NotEqual(t, a.UUID, b.UUID)
}

func TestAsErrorPreservesPlatformError(t *testing.T) {
	inner := NewErrorWithContext(context.Background(), LayerInfrastructure, ErrorTypeExternal, "upstream", errors.New("timeout"), CodeBackendCallFailure, map[string]any{ContextModelID: "m"})
	wrapped := fmt.Errorf("call: %w", inner)

	out := AsError(WithRequestID(context.Background(), "r"), LayerDomain, wrapped, "ignored")
	require.NotNil(t, out)
	assert.Equal(t, ErrorTypeExternal, out.Type)
	assert.Equal(t, CodeBackendCallFailure, out.UUID)
	assert.Equal(t, "m", out.ContextString(ContextModelID))
	assert.Equal(t, "r", out.RequestID)

	assert.Nil(t, AsError(context.Background(), LayerDomain, nil, "x"))
	assert.Equal(t, ErrorTypeInternal, AsError(context.Background(), LayerDomain, errors.New("x"), "x").Type)
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrorTypeToHTTPStatus(ErrorTypeValidation))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus(ErrorTypeConfiguration))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus(ErrorTypeExternal))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus("SOMETHING_ELSE"))
}

func TestIsErrorType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewError(context.Background(), LayerDomain, ErrorTypeConfiguration, "x", nil, ""))
	assert.True(t, IsErrorType(err, ErrorTypeConfiguration))
	assert.False(t, IsErrorType(err, ErrorTypeValidation))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeValidation))
	assert.False(t, IsErrorType(nil, ErrorTypeValidation))
}

func TestToErrorBody(t *testing.T) {
	err := NewErrorWithContext(context.Background(), LayerDomain, ErrorTypeExternal,
		"Error processing Bedrock API response", errors.New("access denied"), CodeBackendCallFailure,
		map[string]any{ContextModelID: "amazon.titan-text-express-v1"})

	status, body := ToErrorBody(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Error processing Bedrock API response", body.Message)
	assert.Equal(t, "access denied", body.Error)
	assert.Equal(t, "amazon.titan-text-express-v1", body.ModelID)
	assert.Equal(t, CodeBackendCallFailure, body.Code)

	status, body = ToErrorBody(errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "plain", body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestErrorBodyOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(ErrorBody{Message: "Prefecture name is required and must be a string"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Prefecture name is required and must be a string"}`, string(raw))
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	LogError(log, NewErrorWithContext(WithRequestID(context.Background(), "req-9"), LayerHandler, ErrorTypeValidation, "Invalid JSON body", errors.New("unexpected EOF"), CodeBadRequestBody, map[string]any{"path": "/consult-souvenir"}))
	LogError(log, nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "Invalid JSON body", line["message"])
	assert.Equal(t, "req-9", line["request_id"])
	assert.Equal(t, "/consult-souvenir", line["path"])
	assert.Equal(t, "unexpected EOF", line["error"])
}

func TestLogErrorLevelByType(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      string
	}{
		{ErrorTypeValidation, "warn"},
		{ErrorTypeConfiguration, "error"},
		{ErrorTypeExternal, "error"},
		{ErrorTypeInternal, "error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			var buf bytes.Buffer
			LogError(zerolog.New(&buf), NewError(context.Background(), LayerDomain, tt.errorType, "failed", nil, ""))

			var line map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
			assert.Equal(t, tt.want, line["level"])
		})
	}
}
