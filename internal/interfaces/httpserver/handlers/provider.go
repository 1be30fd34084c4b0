package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/souvenir-api/internal/interfaces/lambdahandler"
)

// Provider wires HTTP handlers.
type Provider struct {
	Souvenir *SouvenirHandler
}

func NewProvider(events *lambdahandler.Handler, log zerolog.Logger) *Provider {
	return &Provider{
		Souvenir: NewSouvenirHandler(events, log),
	}
}
