package http

import (
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
)

// Options tunes transport behaviour that does not belong to any service.
type Options struct {
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool

	// SessionTTL is the max age of the session cookie. It should match the
	// session token lifetime.
	SessionTTL time.Duration

	// RequestTimeout bounds every request. Zero disables the limit.
	RequestTimeout time.Duration
}

type Handler struct {
	services *service.Services
	options  Options

	logger *logger.Logger
}

func NewHandler(services *service.Services, options Options, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		options:  options,
		logger:   logger,
	}
}
