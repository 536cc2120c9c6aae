package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/models"
)

// logResetTokenSender records that a reset token was issued. It never
// writes the token itself; deployments that deliver tokens by mail plug in
// their own [ResetTokenSender].
type logResetTokenSender struct {
	logger *logger.Logger
}

func NewLogResetTokenSender(logger *logger.Logger) ResetTokenSender {
	return &logResetTokenSender{logger: logger}
}

func (s *logResetTokenSender) SendResetToken(ctx context.Context, account models.Account, token string, expiresAt time.Time) error {
	logger.FromContext(ctx).Info().
		Int64("account_id", account.AccountID).
		Time("expires_at", expiresAt).
		Msg("password reset token issued")
	return nil
}
