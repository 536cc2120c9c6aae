package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cert-flow/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService owns the credential and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.Token, error)
	Authenticate(ctx context.Context, request models.LoginRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Session, error)
	RequestPasswordReset(ctx context.Context, email string) (models.PasswordResetAck, error)
	ConsumePasswordReset(ctx context.Context, token, newPassword string) error
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
	EnsureReviewer(ctx context.Context, seed models.ReviewerSeed) (bool, error)
}

// WorkflowService is the two-level approval state machine. Every call is
// authorized against the caller's session.
type WorkflowService interface {
	Submit(ctx context.Context, session models.Session, request models.SubmitRequest) (models.Application, error)
	ListFor(ctx context.Context, session models.Session, scope models.ListScope) ([]models.Application, error)
	Decide(ctx context.Context, session models.Session, request models.DecisionRequest) (models.Application, error)
	FetchForRender(ctx context.Context, session models.Session, applicationID int64) (models.CertificateSnapshot, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// ResetTokenSender delivers a freshly issued password-reset token to the
// account owner.
type ResetTokenSender interface {
	SendResetToken(ctx context.Context, account models.Account, token string, expiresAt time.Time) error
}

// AccountReader is the read-only slice of the account store the workflow
// needs to snapshot the requester profile.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID int64) (models.Account, error)
}
