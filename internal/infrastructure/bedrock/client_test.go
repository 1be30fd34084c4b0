package bedrock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/souvenir-api/internal/config"
	"github.com/janhq/souvenir-api/internal/domain/souvenir"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), &config.Config{
		BedrockRegion:      "ap-northeast-1",
		BedrockEndpoint:    endpoint,
		BedrockAccessKeyID: "AKIDEXAMPLE",
		BedrockSecretKey:   "secret",
		BedrockMaxAttempts: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestClientInvokeModel(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/model/amazon.titan-text-express-v1/invoke", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"outputText":"X"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.InvokeModel(context.Background(), souvenir.InvokeRequest{
		ModelID:     "amazon.titan-text-express-v1",
		ContentType: "application/json",
		Accept:      "application/json",
		Body:        []byte(`{"inputText":"hello"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", gotBody["inputText"])
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"results":[{"outputText":"X"}]}`, string(resp.Body))
}

func TestClientInvokeModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-ErrorType", "AccessDeniedException")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You don't have access to the model with the specified model ID."}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.InvokeModel(context.Background(), souvenir.InvokeRequest{
		ModelID:     "anthropic.claude-3-haiku-20240307-v1:0",
		ContentType: "application/json",
		Accept:      "application/json",
		Body:        []byte(`{}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestClientWithServiceEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"A"},{"type":"text","text":"B"}]}`))
	}))
	defer server.Close()

	svc := souvenir.NewService(&config.Config{BedrockModelID: "anthropic.claude-3-haiku-20240307-v1:0"}, newTestClient(t, server.URL), zerolog.Nop())
	rec, err := svc.Recommend(context.Background(), "石川")
	require.NoError(t, err)
	assert.Equal(t, "AB", rec.Recommendation)
}
