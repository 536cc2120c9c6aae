package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/models"
)

// accountRepository is the SQL implementation of [AccountRepository] over
// the "accounts" table. It works with both PostgreSQL and SQLite; dialect
// differences live in [DB].
type accountRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account and returns it with the assigned id.
//
// Error handling:
//   - unique violation on email  → [ErrEmailAlreadyExists]
//   - unique violation on reg_no → [ErrRegNoAlreadyExists]
//   - any other driver error     → wrapped [ErrExecutingStatement]
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	query, args, err := r.db.buildInsertAccountQuery(account)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("failed to build query")
		return models.Account{}, err
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.AccountID); err != nil {
		if column, ok := r.db.errorClassificator.UniqueViolation(err); ok {
			switch column {
			case "reg_no":
				return models.Account{}, ErrRegNoAlreadyExists
			default:
				return models.Account{}, ErrEmailAlreadyExists
			}
		}

		log.Err(err).
			Str("func", "*accountRepository.CreateAccount").
			Stringer("classification", r.db.errorClassificator.Classify(err)).
			Msg("error inserting account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return account, nil
}

func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findAccount(ctx, sq.Eq{"email": email})
}

func (r *accountRepository) FindAccountByRegNo(ctx context.Context, regNo string) (models.Account, error) {
	return r.findAccount(ctx, sq.Eq{"reg_no": regNo})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findAccount(ctx, sq.Eq{"id": accountID})
}

func (r *accountRepository) findAccount(ctx context.Context, where sq.Eq) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildSelectAccountQuery(where)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.findAccount").Msg("failed to build query")
		return models.Account{}, err
	}

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*accountRepository.findAccount").
			Stringer("classification", r.db.errorClassificator.Classify(err)).
			Msg("error selecting account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return account, nil
}

func (r *accountRepository) ExistsByRole(ctx context.Context, role models.Role) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildExistsByRoleQuery(role)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ExistsByRole").Msg("failed to build query")
		return false, err
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*accountRepository.ExistsByRole").Str("role", string(role)).Msg("error counting accounts")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

func (r *accountRepository) SetResetToken(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildSetResetTokenQuery(accountID, tokenHash, expiresAt.UTC(), time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.SetResetToken").Msg("failed to build query")
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.SetResetToken").Int64("account_id", accountID).Msg("error storing reset token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildConsumeResetTokenQuery(tokenHash, passwordHash, now.UTC())
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ConsumeResetToken").Msg("failed to build query")
		return 0, err
	}

	var accountID int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrResetTokenNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ConsumeResetToken").Msg("error consuming reset token")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return accountID, nil
}

func (r *accountRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildPurgeResetTokensQuery(now.UTC())
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.PurgeExpiredResetTokens").Msg("failed to build query")
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.PurgeExpiredResetTokens").Msg("error purging reset tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		account        models.Account
		role           string
		regNo          sql.NullString
		resetHash      sql.NullString
		resetExpiresAt sql.NullTime
	)

	err := row.Scan(
		&account.AccountID,
		&account.Name,
		&regNo,
		&account.Department,
		&account.Year,
		&account.Semester,
		&account.Email,
		&role,
		&account.PasswordHash,
		&resetHash,
		&resetExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}

	account.Role = models.Role(role)
	account.RegNo = regNo.String
	account.ResetTokenHash = resetHash.String
	if resetExpiresAt.Valid {
		expiresAt := resetExpiresAt.Time
		account.ResetTokenExpiresAt = &expiresAt
	}

	return account, nil
}
