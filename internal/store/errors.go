package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an account with the same email
	// is already registered.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrRegNoAlreadyExists is returned when an account with the same
	// registration number is already registered.
	ErrRegNoAlreadyExists = errors.New("register number already exists")

	// ErrAccountNotFound is returned when a lookup matches no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrApplicationNotFound is returned when a lookup or update targets an
	// application id that does not exist.
	ErrApplicationNotFound = errors.New("certificate not found")

	// ErrResetTokenNotFound is returned when no account holds a live reset
	// token with the given digest.
	ErrResetTokenNotFound = errors.New("reset token not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the application was changed by another decision after it was read.
	ErrVersionConflict = errors.New("application version conflict occurred")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
