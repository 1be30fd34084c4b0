package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/janhq/souvenir-api/internal/config"
)

func TestProvideService(t *testing.T) {
	var buf bytes.Buffer
	svc := provideService(context.Background(), &config.Config{BedrockModelID: "anthropic.claude-3-haiku-20240307-v1:0"}, nil, zerolog.New(&buf))
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", svc.ModelID())
	assert.NotNil(t, svc.Family())
	assert.Contains(t, buf.String(), `"model_family":"claude"`)

	// Unsupported ids still yield a service; requests get the structured 500.
	buf.Reset()
	svc = provideService(context.Background(), &config.Config{BedrockModelID: "unsupported.model-v1"}, nil, zerolog.New(&buf))
	assert.Nil(t, svc.Family())
	assert.Error(t, svc.CheckModel(context.Background()))
	assert.Contains(t, buf.String(), "unsupported Bedrock model ID configured")
}
