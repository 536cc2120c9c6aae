package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background workers enabled by cfg. A zero purge
// interval leaves the reset-token purge worker out.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{}

	if cfg.ResetTokenPurgeInterval > 0 {
		w.workers = append(w.workers, NewResetTokenPurgeWorker(services.AuthService, cfg.ResetTokenPurgeInterval, logger))
	}

	logger.Info().Int("count", len(w.workers)).Msg("background workers created")
	return w
}

// Run starts every worker in its own goroutine and waits for all of them to
// return after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
