package handler

import (
	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/handler/http"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, http.Options{
			SecureCookies:  cfg.App.SecureCookies,
			SessionTTL:     cfg.App.TokenDuration,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, logger),
	}, nil
}
