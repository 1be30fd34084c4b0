package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/config"
)

// New creates a zerolog.Logger configured for the souvenir service.
// Lambda ships stdout to CloudWatch, so JSON is the default; LOG_FORMAT=console
// switches to the human readable writer for local runs.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	level := parseLevel(cfg.LogLevel)
	if strings.EqualFold(cfg.LogFormat, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger().
		Level(level)
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
