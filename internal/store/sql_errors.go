package store

import (
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It indicates whether a failed database operation is transient.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations, syntax errors, and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. after a transient connection loss or a deadlock rollback).
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// ErrorClassificator inspects driver errors of one SQL backend.
type ErrorClassificator interface {
	// Classify reports whether err is transient.
	Classify(err error) ErrorClassification
	// UniqueViolation reports whether err is a unique-constraint violation
	// and, if so, the column that collided.
	UniqueViolation(err error) (column string, ok bool)
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. It attempts to unwrap err as a
// *pgconn.PgError and delegates to [ClassifyPgError]. If err is nil or is not
// a PostgreSQL driver error, [NonRetryable] is returned.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if pgErr, ok := postgresError(err); ok {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

// postgresUniqueConstraints maps constraint names declared in the postgres
// migrations to the column they guard.
var postgresUniqueConstraints = map[string]string{
	"accounts_email_key":  "email",
	"accounts_reg_no_key": "reg_no",
}

// UniqueViolation implements [ErrorClassificator].
func (c *PostgresErrorClassifier) UniqueViolation(err error) (string, bool) {
	pgErr, ok := postgresError(err)
	if !ok || pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}
	return postgresUniqueConstraints[pgErr.ConstraintName], true
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] based on
// the PostgreSQL error code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
//
// Retryable codes:
//   - Class 08: connection exceptions (08000, 08003, 08006)
//   - Class 40: transaction rollback, serialization failure, deadlock (40000, 40001, 40P01)
//   - Class 57: cannot connect now (57P03)
//
// Any other code is classified as [NonRetryable].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	// Class 08: connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return Retryable

	// Class 40: transaction rollback
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return Retryable

	// Class 57: operator intervention
	case pgerrcode.CannotConnectNow: // 57P03
		return Retryable
	}

	return NonRetryable
}

// SQLiteErrorClassifier implements [ErrorClassificator] for go-sqlite3.
type SQLiteErrorClassifier struct{}

func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Busy and locked databases are
// transient; everything else is not.
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	liteErr, ok := sqliteError(err)
	if !ok {
		return NonRetryable
	}

	switch liteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}
	return NonRetryable
}

// UniqueViolation implements [ErrorClassificator]. SQLite reports the
// collision as "UNIQUE constraint failed: <table>.<column>".
func (c *SQLiteErrorClassifier) UniqueViolation(err error) (string, bool) {
	liteErr, ok := sqliteError(err)
	if !ok || liteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return "", false
	}

	msg := liteErr.Error()
	idx := strings.LastIndex(msg, ".")
	if idx < 0 {
		return "", true
	}
	return strings.TrimSpace(msg[idx+1:]), true
}
