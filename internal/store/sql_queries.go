package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-cert-flow/models"
)

var accountColumns = []string{
	"id",
	"name",
	"reg_no",
	"department",
	"year",
	"semester",
	"email",
	"role",
	"password_hash",
	"reset_token_hash",
	"reset_token_expires_at",
	"created_at",
	"updated_at",
}

var applicationColumns = []string{
	"id",
	"student_reg_no",
	"student_name",
	"department",
	"year",
	"semester",
	"certificate_type",
	"purpose",
	"applied_at",
	"hod_status",
	"hod_decided_at",
	"principal_status",
	"principal_decided_at",
	"version",
	"created_at",
	"updated_at",
}

func (db *DB) buildInsertAccountQuery(account models.Account) (string, []any, error) {
	query, args, err := db.builder.
		Insert(account.TableName()).
		Columns(
			"name", "reg_no", "department", "year", "semester",
			"email", "role", "password_hash", "created_at", "updated_at",
		).
		Values(
			account.Name, nullString(account.RegNo), account.Department, account.Year, account.Semester,
			account.Email, string(account.Role), account.PasswordHash, account.CreatedAt, account.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildSelectAccountQuery(where sq.Sqlizer) (string, []any, error) {
	query, args, err := db.builder.
		Select(accountColumns...).
		From(models.Account{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildExistsByRoleQuery(role models.Role) (string, []any, error) {
	query, args, err := db.builder.
		Select("COUNT(*)").
		From(models.Account{}.TableName()).
		Where(sq.Eq{"role": string(role)}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildSetResetTokenQuery(accountID int64, tokenHash string, expiresAt, now time.Time) (string, []any, error) {
	query, args, err := db.builder.
		Update(models.Account{}.TableName()).
		Set("reset_token_hash", tokenHash).
		Set("reset_token_expires_at", expiresAt).
		Set("updated_at", now).
		Where(sq.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildConsumeResetTokenQuery swaps the password and clears the token in a
// single statement; the digest and expiry guard make the token single use.
func (db *DB) buildConsumeResetTokenQuery(tokenHash, passwordHash string, now time.Time) (string, []any, error) {
	query, args, err := db.builder.
		Update(models.Account{}.TableName()).
		Set("password_hash", passwordHash).
		Set("reset_token_hash", nil).
		Set("reset_token_expires_at", nil).
		Set("updated_at", now).
		Where(sq.Eq{"reset_token_hash": tokenHash}).
		Where(sq.Gt{"reset_token_expires_at": now}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildPurgeResetTokensQuery(now time.Time) (string, []any, error) {
	query, args, err := db.builder.
		Update(models.Account{}.TableName()).
		Set("reset_token_hash", nil).
		Set("reset_token_expires_at", nil).
		Where(sq.NotEq{"reset_token_hash": nil}).
		Where(sq.LtOrEq{"reset_token_expires_at": now}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildInsertApplicationQuery(app models.Application) (string, []any, error) {
	query, args, err := db.builder.
		Insert(app.TableName()).
		Columns(
			"student_reg_no", "student_name", "department", "year", "semester",
			"certificate_type", "purpose", "applied_at",
			"hod_status", "principal_status", "version", "created_at", "updated_at",
		).
		Values(
			app.StudentRegNo, app.StudentName, app.Department, app.Year, app.Semester,
			string(app.CertificateType), app.Purpose, app.AppliedAt,
			string(app.Level1Status), string(app.Level2Status), app.Version, app.CreatedAt, app.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildGetApplicationQuery(id int64) (string, []any, error) {
	query, args, err := db.builder.
		Select(applicationColumns...).
		From(models.Application{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildListApplicationsQuery(filter models.ApplicationFilter) (string, []any, error) {
	where := sq.And{}
	if filter.StudentRegNo != nil {
		where = append(where, sq.Eq{"student_reg_no": *filter.StudentRegNo})
	}
	if filter.Level1Status != nil {
		where = append(where, sq.Eq{"hod_status": string(*filter.Level1Status)})
	}
	if filter.Level2Status != nil {
		where = append(where, sq.Eq{"principal_status": string(*filter.Level2Status)})
	}

	builder := db.builder.
		Select(applicationColumns...).
		From(models.Application{}.TableName())
	if len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.
		OrderBy("applied_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateDecisionQuery is a compare-and-set on version.
func (db *DB) buildUpdateDecisionQuery(app models.Application, now time.Time) (string, []any, error) {
	query, args, err := db.builder.
		Update(app.TableName()).
		Set("hod_status", string(app.Level1Status)).
		Set("hod_decided_at", app.Level1DecidedAt).
		Set("principal_status", string(app.Level2Status)).
		Set("principal_decided_at", app.Level2DecidedAt).
		Set("version", app.Version+1).
		Set("updated_at", now).
		Where(sq.Eq{"id": app.ID, "version": app.Version}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// nullString stores empty strings as NULL so that UNIQUE columns accept any
// number of absent values.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
