package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn     func(ctx context.Context, request models.RegisterRequest) (models.Token, error)
	authenticateFn func(ctx context.Context, request models.LoginRequest) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Session, error)
	requestResetFn func(ctx context.Context, email string) (models.PasswordResetAck, error)
	consumeResetFn func(ctx context.Context, token, newPassword string) error
}

func (m *mockAuthService) Register(ctx context.Context, request models.RegisterRequest) (models.Token, error) {
	return m.registerFn(ctx, request)
}

func (m *mockAuthService) Authenticate(ctx context.Context, request models.LoginRequest) (models.Token, error) {
	return m.authenticateFn(ctx, request)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Session, error) {
	if m.parseTokenFn == nil {
		return models.Session{}, service.ErrTokenIsExpiredOrInvalid
	}
	return m.parseTokenFn(ctx, tokenString)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) (models.PasswordResetAck, error) {
	return m.requestResetFn(ctx, email)
}

func (m *mockAuthService) ConsumePasswordReset(ctx context.Context, token, newPassword string) error {
	return m.consumeResetFn(ctx, token, newPassword)
}

func (m *mockAuthService) PurgeExpiredResetTokens(context.Context) (int64, error) {
	return 0, nil
}

func (m *mockAuthService) EnsureReviewer(context.Context, models.ReviewerSeed) (bool, error) {
	return false, nil
}

// mockWorkflowService implements service.WorkflowService for unit tests.
type mockWorkflowService struct {
	submitFn func(ctx context.Context, session models.Session, request models.SubmitRequest) (models.Application, error)
	listFn   func(ctx context.Context, session models.Session, scope models.ListScope) ([]models.Application, error)
	decideFn func(ctx context.Context, session models.Session, request models.DecisionRequest) (models.Application, error)
	fetchFn  func(ctx context.Context, session models.Session, id int64) (models.CertificateSnapshot, error)
}

func (m *mockWorkflowService) Submit(ctx context.Context, session models.Session, request models.SubmitRequest) (models.Application, error) {
	return m.submitFn(ctx, session, request)
}

func (m *mockWorkflowService) ListFor(ctx context.Context, session models.Session, scope models.ListScope) ([]models.Application, error) {
	return m.listFn(ctx, session, scope)
}

func (m *mockWorkflowService) Decide(ctx context.Context, session models.Session, request models.DecisionRequest) (models.Application, error) {
	return m.decideFn(ctx, session, request)
}

func (m *mockWorkflowService) FetchForRender(ctx context.Context, session models.Session, id int64) (models.CertificateSnapshot, error) {
	return m.fetchFn(ctx, session, id)
}

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

var (
	studentSession = models.Session{AccountID: 10, Role: models.RoleStudent, Name: "Asha", RegNo: "21CS001"}
	hodSession     = models.Session{AccountID: 1, Role: models.RoleHOD, Name: "Dr. Rao", Email: "hod@college.edu"}
)

func newTestHandler(auth service.AuthService, workflow service.WorkflowService) *Handler {
	if auth == nil {
		auth = &mockAuthService{}
	}
	return NewHandler(&service.Services{
		AuthService:     auth,
		WorkflowService: workflow,
		AppInfoService:  &mockAppInfoService{version: "test-version"},
	}, Options{}, logger.Nop())
}

// withSessionCtx returns r carrying session, as withSession would leave it.
func withSessionCtx(r *http.Request, session models.Session) *http.Request {
	return r.WithContext(utils.WithSession(r.Context(), session))
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	opts := Options{SecureCookies: true}

	h := NewHandler(svc, opts, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, opts, h.options)
	assert.Equal(t, log, h.logger)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

type routeCase struct {
	method string
	path   string
}

// expectedRoutes lists every route that Init() must register. Protected
// routes answer 401 without a session, which still proves they exist.
var expectedRoutes = []routeCase{
	{http.MethodGet, "/api/version"},
	{http.MethodPost, "/api/auth/logout"},
	{http.MethodGet, "/api/auth/session"},
	{http.MethodGet, "/api/certificates"},
	{http.MethodPost, "/api/certificates"},
	{http.MethodPost, "/api/certificates/approve"},
	{http.MethodGet, "/api/certificates/download/1"},
}

func TestInit_RegistersAllRoutes(t *testing.T) {
	router := newTestHandler(nil, nil).Init()

	for _, tc := range expectedRoutes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.NotEqual(t, http.StatusNotFound, rec.Code, "route not found: %s %s", tc.method, tc.path)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code, "method not allowed: %s %s", tc.method, tc.path)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newTestHandler(nil, nil).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns405(t *testing.T) {
	router := newTestHandler(nil, nil).Init()

	req := httptest.NewRequest(http.MethodDelete, "/api/certificates", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestInit_SetsTraceIDHeader(t *testing.T) {
	router := newTestHandler(nil, nil).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}
