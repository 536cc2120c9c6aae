package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/handler"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
)

// BackgroundRunner is run next to the HTTP server and stopped with it.
type BackgroundRunner interface {
	Run(ctx context.Context)
}

type server struct {
	httpServer *httpServer
	background BackgroundRunner
	logger     *logger.Logger
}

// NewServer creates the HTTP server for handlers. background may be nil.
func NewServer(handlers *handler.Handlers, background BackgroundRunner, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		background: background,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

// run serves until ctx is done, then shuts the HTTP server down and waits
// for the background runner to return.
func (s *server) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backgroundDone := make(chan struct{})
	go func() {
		defer close(backgroundDone)
		if s.background != nil {
			s.background.Run(ctx)
		}
	}()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("Launching HTTP server")
		s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
		s.Shutdown()
		<-serverDone
	case <-serverDone:
		// listener failed, stop the workers too
		cancel()
	}

	<-backgroundDone
	s.logger.Info().Msg("server Shutdown gracefully")
}
