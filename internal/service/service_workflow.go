package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/store"
	"github.com/MKhiriev/go-cert-flow/models"
)

// workflowService implements the two-level approval state machine.
//
// Level 1 (hod) decides first. Level 2 (principal) may only decide an
// application level 1 approved. Each track leaves Pending exactly once;
// concurrent decisions on one application are serialised by the
// compare-and-set in ApplicationRepository.UpdateDecision.
type workflowService struct {
	applicationRepository store.ApplicationRepository
	accountReader         AccountReader

	now    func() time.Time
	logger *logger.Logger
}

func NewWorkflowService(applicationRepository store.ApplicationRepository, accountReader AccountReader, logger *logger.Logger) WorkflowService {
	return &workflowService{
		applicationRepository: applicationRepository,
		accountReader:         accountReader,
		now:                   time.Now,
		logger:                logger,
	}
}

// Submit files a new application for the calling student. The requester
// profile is copied from the current account record.
func (w *workflowService) Submit(ctx context.Context, session models.Session, request models.SubmitRequest) (models.Application, error) {
	log := logger.FromContext(ctx)

	if session.Role != models.RoleStudent {
		return models.Application{}, ErrForbidden
	}

	purpose := strings.TrimSpace(request.Purpose)
	if request.CertificateType == "" || purpose == "" {
		return models.Application{}, ErrInvalidDataProvided
	}
	if !request.CertificateType.Valid() {
		return models.Application{}, ErrInvalidCertificateType
	}

	student, err := w.accountReader.FindAccountByID(ctx, session.AccountID)
	if err != nil {
		log.Err(err).Str("func", "*workflowService.Submit").Int64("account_id", session.AccountID).Msg("error loading requester")
		return models.Application{}, fmt.Errorf("error loading requester: %w", err)
	}

	application := models.Application{
		StudentRegNo:    student.RegNo,
		StudentName:     student.Name,
		Department:      student.Department,
		Year:            student.Year,
		Semester:        student.Semester,
		CertificateType: request.CertificateType,
		Purpose:         purpose,
		AppliedAt:       w.now().UTC(),
		Level1Status:    models.StatusPending,
		Level2Status:    models.StatusPending,
	}

	created, err := w.applicationRepository.CreateApplication(ctx, application)
	if err != nil {
		log.Err(err).Str("func", "*workflowService.Submit").Str("reg_no", student.RegNo).Msg("error creating application")
		return models.Application{}, fmt.Errorf("error creating application: %w", err)
	}

	log.Info().Int64("application_id", created.ID).Str("certificate_type", string(created.CertificateType)).Msg("application submitted")
	return created, nil
}

// ListFor returns what the caller may see: a student their own
// applications, a reviewer their work queue, or everything when scope is
// [models.ScopeAll].
func (w *workflowService) ListFor(ctx context.Context, session models.Session, scope models.ListScope) ([]models.Application, error) {
	filter, err := listFilter(session, scope)
	if err != nil {
		return nil, err
	}

	applications, err := w.applicationRepository.ListApplications(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*workflowService.ListFor").Str("role", string(session.Role)).Msg("error listing applications")
		return nil, fmt.Errorf("error listing applications: %w", err)
	}

	return applications, nil
}

func listFilter(session models.Session, scope models.ListScope) (models.ApplicationFilter, error) {
	pending := models.StatusPending
	approved := models.StatusApproved

	switch session.Role {
	case models.RoleStudent:
		regNo := session.RegNo
		return models.ApplicationFilter{StudentRegNo: &regNo}, nil
	case models.RoleHOD:
		if scope == models.ScopeAll {
			return models.ApplicationFilter{}, nil
		}
		return models.ApplicationFilter{Level1Status: &pending}, nil
	case models.RolePrincipal:
		if scope == models.ScopeAll {
			return models.ApplicationFilter{}, nil
		}
		return models.ApplicationFilter{Level1Status: &approved, Level2Status: &pending}, nil
	default:
		return models.ApplicationFilter{}, ErrForbidden
	}
}

// Decide records the caller's verdict on the track their role owns.
func (w *workflowService) Decide(ctx context.Context, session models.Session, request models.DecisionRequest) (models.Application, error) {
	log := logger.FromContext(ctx)

	if !session.Role.IsReviewer() {
		return models.Application{}, ErrForbidden
	}

	outcome, ok := request.Action.Outcome()
	if !ok || request.ApplicationID <= 0 {
		return models.Application{}, ErrInvalidDecisionAction
	}

	application, err := w.applicationRepository.GetApplication(ctx, request.ApplicationID)
	if err != nil {
		if !errors.Is(err, store.ErrApplicationNotFound) {
			log.Err(err).Str("func", "*workflowService.Decide").Int64("application_id", request.ApplicationID).Msg("error loading application")
		}
		return models.Application{}, fmt.Errorf("error loading application: %w", err)
	}

	decidedAt := w.now().UTC()
	switch session.Role {
	case models.RoleHOD:
		if application.Level1Status != models.StatusPending {
			return models.Application{}, ErrAlreadyReviewed
		}
		application.Level1Status = outcome
		application.Level1DecidedAt = &decidedAt
	case models.RolePrincipal:
		if application.Level1Status != models.StatusApproved {
			return models.Application{}, ErrLevel1ApprovalRequired
		}
		if application.Level2Status != models.StatusPending {
			return models.Application{}, ErrAlreadyReviewed
		}
		application.Level2Status = outcome
		application.Level2DecidedAt = &decidedAt
	}
	application.Derive()

	updated, err := w.applicationRepository.UpdateDecision(ctx, application)
	if errors.Is(err, store.ErrVersionConflict) {
		return models.Application{}, fmt.Errorf("%w: %w", ErrAlreadyReviewed, err)
	}
	if err != nil {
		log.Err(err).Str("func", "*workflowService.Decide").Int64("application_id", application.ID).Msg("error saving decision")
		return models.Application{}, fmt.Errorf("error saving decision: %w", err)
	}

	log.Info().
		Int64("application_id", updated.ID).
		Str("role", string(session.Role)).
		Str("action", string(request.Action)).
		Str("final_status", string(updated.FinalStatus)).
		Msg("decision recorded")
	return updated, nil
}

// FetchForRender returns the certificate data of an approved application.
// Students may only fetch their own.
func (w *workflowService) FetchForRender(ctx context.Context, session models.Session, applicationID int64) (models.CertificateSnapshot, error) {
	if !session.Role.Valid() {
		return models.CertificateSnapshot{}, ErrForbidden
	}

	application, err := w.applicationRepository.GetApplication(ctx, applicationID)
	if err != nil {
		return models.CertificateSnapshot{}, fmt.Errorf("error loading application: %w", err)
	}

	if session.Role == models.RoleStudent && application.StudentRegNo != session.RegNo {
		return models.CertificateSnapshot{}, ErrForbidden
	}

	if application.FinalStatus != models.StatusApproved {
		return models.CertificateSnapshot{}, ErrCertificateNotApproved
	}

	return application.Snapshot(), nil
}
