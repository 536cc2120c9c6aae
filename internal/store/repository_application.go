package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/models"
)

// applicationRepository is the SQL implementation of
// [ApplicationRepository] over the "applications" table.
//
// Every returned application has its derived fields filled in by
// [models.Application.Derive].
type applicationRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewApplicationRepository constructs an [ApplicationRepository] backed by
// the provided database connection and logger.
func NewApplicationRepository(db *DB, logger *logger.Logger) ApplicationRepository {
	logger.Debug().Msg("creating application repository")
	return &applicationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *applicationRepository) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.Version = 1

	query, args, err := r.db.buildInsertApplicationQuery(app)
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.CreateApplication").Msg("failed to build query")
		return models.Application{}, err
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&app.ID); err != nil {
		log.Err(err).
			Str("func", "*applicationRepository.CreateApplication").
			Str("student_reg_no", app.StudentRegNo).
			Stringer("classification", r.db.errorClassificator.Classify(err)).
			Msg("error inserting application")
		return models.Application{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	app.Derive()
	return app, nil
}

func (r *applicationRepository) GetApplication(ctx context.Context, id int64) (models.Application, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildGetApplicationQuery(id)
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.GetApplication").Msg("failed to build query")
		return models.Application{}, err
	}

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.GetApplication").Int64("application_id", id).Msg("error selecting application")
		return models.Application{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return app, nil
}

func (r *applicationRepository) ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.buildListApplicationsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.ListApplications").Msg("failed to build query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.ListApplications").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Application, 0, 16)
	for rows.Next() {
		app, scanErr := scanApplication(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*applicationRepository.ListApplications").Int("row", len(results)).Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		results = append(results, app)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*applicationRepository.ListApplications").Msg("rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

// UpdateDecision persists the review tracks of app. The write only happens
// if the stored version equals app.Version; otherwise the application was
// decided concurrently and [ErrVersionConflict] is returned (or
// [ErrApplicationNotFound] if the row is gone).
func (r *applicationRepository) UpdateDecision(ctx context.Context, app models.Application) (models.Application, error) {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	query, args, err := r.db.buildUpdateDecisionQuery(app, now)
	if err != nil {
		log.Err(err).Str("func", "*applicationRepository.UpdateDecision").Msg("failed to build query")
		return models.Application{}, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*applicationRepository.UpdateDecision").
			Int64("application_id", app.ID).
			Stringer("classification", r.db.errorClassificator.Classify(err)).
			Msg("error updating application")
		return models.Application{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Application{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		if _, getErr := r.GetApplication(ctx, app.ID); errors.Is(getErr, ErrApplicationNotFound) {
			return models.Application{}, ErrApplicationNotFound
		}
		log.Warn().
			Str("func", "*applicationRepository.UpdateDecision").
			Int64("application_id", app.ID).
			Int64("version", app.Version).
			Msg("version conflict")
		return models.Application{}, ErrVersionConflict
	}

	app.Version++
	app.UpdatedAt = now
	app.Derive()
	return app, nil
}

func scanApplication(row rowScanner) (models.Application, error) {
	var (
		app             models.Application
		certificateType string
		hodStatus       string
		principalStatus string
		hodDecidedAt    sql.NullTime
		principalAt     sql.NullTime
	)

	err := row.Scan(
		&app.ID,
		&app.StudentRegNo,
		&app.StudentName,
		&app.Department,
		&app.Year,
		&app.Semester,
		&certificateType,
		&app.Purpose,
		&app.AppliedAt,
		&hodStatus,
		&hodDecidedAt,
		&principalStatus,
		&principalAt,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return models.Application{}, err
	}

	app.CertificateType = models.CertificateType(certificateType)
	app.Level1Status = models.ReviewStatus(hodStatus)
	app.Level2Status = models.ReviewStatus(principalStatus)
	if hodDecidedAt.Valid {
		t := hodDecidedAt.Time
		app.Level1DecidedAt = &t
	}
	if principalAt.Valid {
		t := principalAt.Time
		app.Level2DecidedAt = &t
	}

	app.Derive()
	return app, nil
}
