package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cert-flow/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository persists credential records.
type AccountRepository interface {
	// CreateAccount inserts account and returns it with the assigned id and
	// timestamps. Collisions map to [ErrEmailAlreadyExists] or
	// [ErrRegNoAlreadyExists].
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	FindAccountByRegNo(ctx context.Context, regNo string) (models.Account, error)
	FindAccountByID(ctx context.Context, accountID int64) (models.Account, error)
	// ExistsByRole reports whether at least one account holds role.
	ExistsByRole(ctx context.Context, role models.Role) (bool, error)
	// SetResetToken stores the digest of a fresh reset token, replacing any
	// previous one.
	SetResetToken(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken replaces the password of the account holding a live
	// token with digest tokenHash and clears the token in the same
	// statement. Returns the account id, or [ErrResetTokenNotFound].
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)
	// PurgeExpiredResetTokens clears reset tokens that expired before now.
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ApplicationRepository persists certificate applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application models.Application) (models.Application, error)
	GetApplication(ctx context.Context, id int64) (models.Application, error)
	// ListApplications returns the applications matching filter, newest
	// first.
	ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	// UpdateDecision writes both review tracks of application if the stored
	// version still equals application.Version, and bumps the version.
	// Returns [ErrVersionConflict] when the row changed in between.
	UpdateDecision(ctx context.Context, application models.Application) (models.Application, error)
}
