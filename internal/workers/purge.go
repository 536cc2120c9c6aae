package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
)

// ResetTokenPurgeWorker periodically deletes password-reset tokens that
// expired without being used.
type ResetTokenPurgeWorker struct {
	purger   ResetTokenPurger
	interval time.Duration
	logger   *logger.Logger
}

func NewResetTokenPurgeWorker(purger ResetTokenPurger, interval time.Duration, logger *logger.Logger) *ResetTokenPurgeWorker {
	return &ResetTokenPurgeWorker{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

func (w *ResetTokenPurgeWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("reset token purge worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("reset token purge worker stopped")
			return
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *ResetTokenPurgeWorker) purge(ctx context.Context) {
	purged, err := w.purger.PurgeExpiredResetTokens(ctx)
	if err != nil {
		w.logger.Err(err).Msg("purging expired reset tokens failed")
		return
	}
	if purged > 0 {
		w.logger.Debug().Int64("purged", purged).Msg("expired reset tokens purged")
	}
}
