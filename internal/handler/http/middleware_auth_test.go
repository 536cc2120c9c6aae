package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptOnly returns a ParseToken stub that accepts exactly one token.
func acceptOnly(valid string, session models.Session) func(context.Context, string) (models.Session, error) {
	return func(_ context.Context, token string) (models.Session, error) {
		if token != valid {
			return models.Session{}, service.ErrTokenIsExpiredOrInvalid
		}
		return session, nil
	}
}

// captureSession runs r through withSession and returns what the next
// handler saw.
func captureSession(h *Handler, r *http.Request) (models.Session, bool) {
	var (
		got models.Session
		ok  bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = utils.GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h.withSession(next).ServeHTTP(httptest.NewRecorder(), r)
	return got, ok
}

func TestTokenFromRequest_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		cookie    string
		wantToken string
		wantErr   error
	}{
		{name: "bearer header", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", wantToken: "abc"},
		{name: "cookie", cookie: "from.cookie", wantToken: "from.cookie"},
		{name: "header wins over cookie", header: "Bearer from.header", cookie: "from.cookie", wantToken: "from.header"},
		{name: "nothing", wantErr: ErrNoSessionToken},
		{name: "empty cookie", cookie: "", wantErr: ErrNoSessionToken},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{name: "scheme only", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "extra parts", header: "Bearer a b", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.cookie})
			}

			token, err := tokenFromRequest(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestWithSession_TableTest(t *testing.T) {
	h := newTestHandler(&mockAuthService{parseTokenFn: acceptOnly("good", studentSession)}, nil)

	tests := []struct {
		name        string
		header      string
		cookie      string
		wantSession bool
	}{
		{name: "valid bearer", header: "Bearer good", wantSession: true},
		{name: "valid cookie", cookie: "good", wantSession: true},
		{name: "invalid bearer", header: "Bearer bad"},
		{name: "invalid cookie", cookie: "bad"},
		{name: "malformed header", header: "good"},
		{name: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.cookie})
			}

			session, ok := captureSession(h, req)
			assert.Equal(t, tt.wantSession, ok)
			if tt.wantSession {
				assert.Equal(t, studentSession, session)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	h := newTestHandler(nil, nil)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.requireSession(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decodeError(t, rec))
	})

	t.Run("passes session through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.requireSession(next).ServeHTTP(rec, withSessionCtx(httptest.NewRequest(http.MethodGet, "/", nil), hodSession))

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestWithSession_OriginalRequestNotMutated(t *testing.T) {
	h := newTestHandler(&mockAuthService{parseTokenFn: acceptOnly("good", studentSession)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	_, ok := captureSession(h, req)
	require.True(t, ok)

	_, ok = utils.GetSessionFromContext(req.Context())
	assert.False(t, ok)
}

func TestWithSession_ConcurrentRequests(t *testing.T) {
	h := newTestHandler(&mockAuthService{
		parseTokenFn: func(_ context.Context, token string) (models.Session, error) {
			return models.Session{AccountID: int64(len(token)), Role: models.RoleStudent}, nil
		},
	}, nil)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := make([]byte, n)
			for j := range token {
				token[j] = 'x'
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+string(token))

			session, ok := captureSession(h, req)
			assert.True(t, ok)
			assert.Equal(t, int64(n), session.AccountID)
		}(i)
	}
	wg.Wait()
}
