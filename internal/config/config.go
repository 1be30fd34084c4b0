package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	RuntimeModeAuto   = "auto"
	RuntimeModeLambda = "lambda"
	RuntimeModeHTTP   = "http"
)

// Config holds the environment driven configuration for the souvenir service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"souvenir-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`          // Options: "json" or "console"
	LogContentLevel string        `env:"LOG_CONTENT_LEVEL" envDefault:"hashed"` // Options: "none", "hashed" or "full"
	RuntimeMode     string        `env:"RUNTIME_MODE" envDefault:"auto"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// CORS
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`

	// Bedrock Configuration
	BedrockModelID      string `env:"BEDROCK_MODEL_ID" envDefault:"amazon.titan-text-express-v1"`
	BedrockRegion       string `env:"BEDROCK_REGION" envDefault:"ap-northeast-1"`
	BedrockEndpoint     string `env:"BEDROCK_ENDPOINT"`          // Optional override, e.g. a local mock
	BedrockAccessKeyID  string `env:"BEDROCK_ACCESS_KEY_ID"`     // Falls back to the default credential chain
	BedrockSecretKey    string `env:"BEDROCK_SECRET_ACCESS_KEY"` // Falls back to the default credential chain
	BedrockSessionToken string `env:"BEDROCK_SESSION_TOKEN"`
	BedrockMaxAttempts  int    `env:"BEDROCK_MAX_ATTEMPTS" envDefault:"3"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.BedrockModelID = strings.TrimSpace(cfg.BedrockModelID)
	cfg.BedrockRegion = strings.TrimSpace(cfg.BedrockRegion)
	cfg.BedrockEndpoint = strings.TrimSpace(cfg.BedrockEndpoint)
	cfg.BedrockAccessKeyID = strings.TrimSpace(cfg.BedrockAccessKeyID)
	cfg.BedrockSecretKey = strings.TrimSpace(cfg.BedrockSecretKey)
	cfg.AllowedOrigin = strings.TrimSpace(cfg.AllowedOrigin)
	cfg.RuntimeMode = strings.ToLower(strings.TrimSpace(cfg.RuntimeMode))

	// An empty value set explicitly in the environment still means "use the default".
	if cfg.BedrockModelID == "" {
		cfg.BedrockModelID = "amazon.titan-text-express-v1"
	}
	if cfg.BedrockRegion == "" {
		cfg.BedrockRegion = "ap-northeast-1"
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.BedrockMaxAttempts <= 0 {
		cfg.BedrockMaxAttempts = 3
	}

	switch cfg.RuntimeMode {
	case "", RuntimeModeAuto:
		cfg.RuntimeMode = RuntimeModeAuto
	case RuntimeModeLambda, RuntimeModeHTTP:
	default:
		return nil, fmt.Errorf("RUNTIME_MODE must be one of auto, lambda, http; got %q", cfg.RuntimeMode)
	}

	if (cfg.BedrockAccessKeyID == "") != (cfg.BedrockSecretKey == "") {
		return nil, fmt.Errorf("BEDROCK_ACCESS_KEY_ID and BEDROCK_SECRET_ACCESS_KEY must be set together")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address used in local mode.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasStaticCredentials reports whether explicit Bedrock keys were configured.
func (c *Config) HasStaticCredentials() bool {
	return c.BedrockAccessKeyID != "" && c.BedrockSecretKey != ""
}

// UseLambda resolves the runtime mode. In auto mode the Lambda runtime API
// variable decides.
func (c *Config) UseLambda() bool {
	switch c.RuntimeMode {
	case RuntimeModeLambda:
		return true
	case RuntimeModeHTTP:
		return false
	default:
		return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
	}
}
