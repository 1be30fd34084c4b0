package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"SERVICE_NAME", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "LOG_CONTENT_LEVEL", "RUNTIME_MODE", "HTTP_PORT",
	"SHUTDOWN_TIMEOUT", "ENABLE_TRACING", "OTEL_EXPORTER_OTLP_ENDPOINT", "ALLOWED_ORIGIN",
	"BEDROCK_MODEL_ID", "BEDROCK_REGION", "BEDROCK_ENDPOINT", "BEDROCK_ACCESS_KEY_ID",
	"BEDROCK_SECRET_ACCESS_KEY", "BEDROCK_SESSION_TOKEN", "BEDROCK_MAX_ATTEMPTS",
	"AWS_LAMBDA_RUNTIME_API",
}

// clearEnv unsets every variable the config reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "souvenir-api", cfg.ServiceName)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "hashed", cfg.LogContentLevel)
	assert.Equal(t, "amazon.titan-text-express-v1", cfg.BedrockModelID)
	assert.Equal(t, "ap-northeast-1", cfg.BedrockRegion)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, 3, cfg.BedrockMaxAttempts)
	assert.Equal(t, RuntimeModeAuto, cfg.RuntimeMode)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.HasStaticCredentials())
	assert.False(t, cfg.UseLambda())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEDROCK_MODEL_ID", " anthropic.claude-3-haiku-20240307-v1:0 ")
	t.Setenv("BEDROCK_REGION", "us-east-1")
	t.Setenv("ALLOWED_ORIGIN", "https://d111111abcdef8.cloudfront.net")
	t.Setenv("BEDROCK_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("BEDROCK_SECRET_ACCESS_KEY", "secret")
	t.Setenv("RUNTIME_MODE", "HTTP")
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.BedrockModelID)
	assert.Equal(t, "us-east-1", cfg.BedrockRegion)
	assert.Equal(t, "https://d111111abcdef8.cloudfront.net", cfg.AllowedOrigin)
	assert.True(t, cfg.HasStaticCredentials())
	assert.Equal(t, RuntimeModeHTTP, cfg.RuntimeMode)
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown runtime mode",
			env:  map[string]string{"RUNTIME_MODE": "daemon"},
		},
		{
			name: "access key without secret",
			env:  map[string]string{"BEDROCK_ACCESS_KEY_ID": "AKIDEXAMPLE"},
		},
		{
			name: "malformed port",
			env:  map[string]string{"HTTP_PORT": "eighty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestUseLambda(t *testing.T) {
	clearEnv(t)

	cfg := &Config{RuntimeMode: RuntimeModeAuto}
	assert.False(t, cfg.UseLambda())

	t.Setenv("AWS_LAMBDA_RUNTIME_API", "127.0.0.1:9001")
	assert.True(t, cfg.UseLambda())

	cfg.RuntimeMode = RuntimeModeHTTP
	assert.False(t, cfg.UseLambda())

	cfg.RuntimeMode = RuntimeModeLambda
	assert.True(t, cfg.UseLambda())
}
