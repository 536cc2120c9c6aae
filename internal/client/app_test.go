package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/adapter"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/mock"
	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type appFixture struct {
	app     *App
	adapter *mock.MockServerAdapter
	tokens  *mock.MockTokenStore
	prompt  *mock.MockPasswordPrompter
	out     *bytes.Buffer
}

// newAppFixture expects the stored token to be loaded and handed to the
// adapter, as Run does for every command.
func newAppFixture(t *testing.T, storedToken string) *appFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &appFixture{
		adapter: mock.NewMockServerAdapter(ctrl),
		tokens:  mock.NewMockTokenStore(ctrl),
		prompt:  mock.NewMockPasswordPrompter(ctrl),
		out:     &bytes.Buffer{},
	}
	f.app = NewApp(f.adapter, f.tokens, f.prompt, f.out, logger.Nop())

	f.tokens.EXPECT().Load().Return(storedToken, nil).AnyTimes()
	f.adapter.EXPECT().SetToken(storedToken).AnyTimes()

	return f
}

func TestRun_UsageAndUnknown(t *testing.T) {
	f := newAppFixture(t, "")

	require.NoError(t, f.app.Run(context.Background(), nil))
	assert.Contains(t, f.out.String(), "usage: cert-flow")
	assert.Contains(t, f.out.String(), "approve")

	err := f.app.Run(context.Background(), []string{"frobnicate"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRun_TokenLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mock.NewMockTokenStore(ctrl)
	tokens.EXPECT().Load().Return("", assert.AnError)

	app := NewApp(mock.NewMockServerAdapter(ctrl), tokens, mock.NewMockPasswordPrompter(ctrl), &bytes.Buffer{}, logger.Nop())

	assert.ErrorIs(t, app.Run(context.Background(), []string{"list"}), assert.AnError)
}

func TestRun_UnauthorizedWithoutToken(t *testing.T) {
	f := newAppFixture(t, "")
	f.adapter.EXPECT().ListCertificates(gomock.Any(), models.ScopeDefault).
		Return(nil, fmt.Errorf("%w: Unauthorized", adapter.ErrUnauthorized))

	err := f.app.Run(context.Background(), []string{"list"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSignup(t *testing.T) {
	args := []string{"signup",
		"-name", "Asha", "-reg-no", "21CS001", "-department", "CSE",
		"-year", "3", "-semester", "5", "-email", "asha@college.edu",
	}

	t.Run("prompts twice and saves token", func(t *testing.T) {
		f := newAppFixture(t, "")
		gomock.InOrder(
			f.prompt.EXPECT().Password("Password").Return("secret1", nil),
			f.prompt.EXPECT().Password("Repeat password").Return("secret1", nil),
		)
		f.adapter.EXPECT().Signup(gomock.Any(), models.RegisterRequest{
			Name: "Asha", RegNo: "21CS001", Department: "CSE", Year: "3", Semester: "5",
			Email: "asha@college.edu", Password: "secret1",
		}).Return(models.AuthResponse{Message: "Account created successfully", Role: models.RoleStudent}, nil)
		f.adapter.EXPECT().Token().Return("tok")
		f.tokens.EXPECT().Save("tok").Return(nil)

		require.NoError(t, f.app.Run(context.Background(), args))
		assert.Contains(t, f.out.String(), "Account created successfully (role: student)")
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		f := newAppFixture(t, "")
		f.prompt.EXPECT().Password("Password").Return("secret1", nil)
		f.prompt.EXPECT().Password("Repeat password").Return("secret2", nil)

		assert.ErrorIs(t, f.app.Run(context.Background(), args), ErrPasswordsDiffer)
	})

	t.Run("missing flags", func(t *testing.T) {
		f := newAppFixture(t, "")

		err := f.app.Run(context.Background(), []string{"signup", "-name", "Asha"})
		require.ErrorIs(t, err, ErrMissingArgument)
		assert.Contains(t, err.Error(), "-department, -email, -reg-no, -semester, -year")
	})

	t.Run("server conflict keeps no token", func(t *testing.T) {
		f := newAppFixture(t, "")
		f.adapter.EXPECT().Signup(gomock.Any(), gomock.Any()).
			Return(models.AuthResponse{}, fmt.Errorf("%w: Email already registered", adapter.ErrConflict))

		err := f.app.Run(context.Background(), append(args, "-password", "secret1"))
		assert.ErrorIs(t, err, adapter.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantKind models.LoginKind
	}{
		{name: "student default", args: []string{"login", "-id", "21CS001"}, wantKind: models.LoginStudent},
		{name: "reviewer", args: []string{"login", "-id", "hod@college.edu", "-as", "admin"}, wantKind: models.LoginReviewer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t, "")
			f.prompt.EXPECT().Password("Password").Return("pw", nil)
			f.adapter.EXPECT().Login(gomock.Any(), models.LoginRequest{
				Identifier: tt.args[2],
				Password:   "pw",
				LoginType:  tt.wantKind,
			}).Return(models.AuthResponse{Message: "Login successful", Role: models.RoleHOD}, nil)
			f.adapter.EXPECT().Token().Return("tok")
			f.tokens.EXPECT().Save("tok").Return(nil)

			require.NoError(t, f.app.Run(context.Background(), tt.args))
			assert.Contains(t, f.out.String(), "Login successful")
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAppFixture(t, "")
	f.adapter.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.AuthResponse{}, fmt.Errorf("%w: Invalid credentials", adapter.ErrUnauthorized))

	err := f.app.Run(context.Background(), []string{"login", "-id", "21CS001", "-password", "bad"})
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogout_ClearsEvenIfServerFails(t *testing.T) {
	f := newAppFixture(t, "tok")
	f.adapter.EXPECT().Logout(gomock.Any()).Return(assert.AnError)
	f.tokens.EXPECT().Clear().Return(nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"logout"}))
	assert.Contains(t, f.out.String(), "Logged out successfully")
}

func TestWhoami(t *testing.T) {
	t.Run("student", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().Session(gomock.Any()).Return(&models.Session{
			Name: "Asha", Email: "asha@college.edu", Role: models.RoleStudent, RegNo: "21CS001",
		}, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"whoami"}))
		assert.Contains(t, f.out.String(), "Asha <asha@college.edu>")
		assert.Contains(t, f.out.String(), "reg no: 21CS001")
	})

	t.Run("no session", func(t *testing.T) {
		f := newAppFixture(t, "stale")
		f.adapter.EXPECT().Session(gomock.Any()).Return(nil, nil)

		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"whoami"}), ErrNotLoggedIn)
	})
}

func TestForgotAndReset(t *testing.T) {
	token := "reset-123"

	f := newAppFixture(t, "")
	f.adapter.EXPECT().ForgotPassword(gomock.Any(), "asha@college.edu").
		Return(models.PasswordResetAck{Message: "If the email exists, a reset link has been sent", Token: &token}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"forgot", "-email", "asha@college.edu"}))
	assert.Contains(t, f.out.String(), "reset token: reset-123")

	f.prompt.EXPECT().Password("Password").Return("newpass", nil)
	f.prompt.EXPECT().Password("Repeat password").Return("newpass", nil)
	f.adapter.EXPECT().ResetPassword(gomock.Any(), models.ResetPasswordRequest{Token: token, Password: "newpass"}).Return(nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"reset", "-token", token}))
	assert.Contains(t, f.out.String(), "Password reset successfully")
}

func TestForgot_HiddenToken(t *testing.T) {
	f := newAppFixture(t, "")
	f.adapter.EXPECT().ForgotPassword(gomock.Any(), "nobody@college.edu").
		Return(models.PasswordResetAck{Message: "If the email exists, a reset link has been sent"}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"forgot", "-email", "nobody@college.edu"}))
	assert.NotContains(t, f.out.String(), "reset token")
}

func TestApply(t *testing.T) {
	f := newAppFixture(t, "tok")
	f.adapter.EXPECT().SubmitCertificate(gomock.Any(), models.SubmitRequest{CertificateType: models.Bonafide, Purpose: "bank loan"}).
		Return(models.ApplicationResponse{Message: "Application submitted successfully", Certificate: models.Application{ID: 7}}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"apply", "-type", "Bonafide", "-purpose", "bank loan"}))
	assert.Contains(t, f.out.String(), "(id: 7)")
}

func TestList(t *testing.T) {
	applied := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("table", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().ListCertificates(gomock.Any(), models.ScopeAll).Return([]models.Application{{
			ID: 3, StudentRegNo: "21CS001", StudentName: "Asha", CertificateType: models.Study, AppliedAt: applied,
			Level1Status: models.StatusApproved, Level2Status: models.StatusPending, FinalStatus: models.StatusPending,
		}}, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"list", "-all"}))
		out := f.out.String()
		assert.Contains(t, out, "PRINCIPAL")
		assert.Contains(t, out, "21CS001")
		assert.Contains(t, out, "2026-02-01")
	})

	t.Run("empty", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().ListCertificates(gomock.Any(), models.ScopeDefault).Return([]models.Application{}, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"list"}))
		assert.Contains(t, f.out.String(), "no applications")
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		command string
		action  models.DecisionAction
	}{
		{command: "approve", action: models.ActionApprove},
		{command: "reject", action: models.ActionReject},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			f := newAppFixture(t, "tok")
			f.adapter.EXPECT().DecideCertificate(gomock.Any(), models.DecisionRequest{ApplicationID: 4, Action: tt.action}).
				Return(models.ApplicationResponse{Message: "done", Certificate: models.Application{FinalStatus: models.StatusPending}}, nil)

			require.NoError(t, f.app.Run(context.Background(), []string{tt.command, "-id", "4"}))
			assert.Contains(t, f.out.String(), "final status: Pending")
		})
	}

	t.Run("missing id", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"approve"}), ErrMissingArgument)
	})

	t.Run("conflict surfaces", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().DecideCertificate(gomock.Any(), gomock.Any()).
			Return(models.ApplicationResponse{}, fmt.Errorf("%w: Certificate already processed", adapter.ErrConflict))

		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"reject", "-id", "4"}), adapter.ErrConflict)
	})
}

func TestDownload(t *testing.T) {
	approved := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	snapshot := models.CertificateSnapshot{
		StudentName: "Asha", StudentRegNo: "21CS001", Department: "CSE", Year: "3", Semester: "5",
		CertificateType: models.Bonafide, Purpose: "bank loan", AppliedDate: approved.AddDate(0, 0, -3),
		PrincipalApprovedDate: &approved,
	}

	t.Run("print", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().DownloadCertificate(gomock.Any(), int64(12)).Return(snapshot, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"download", "-id", "12"}))
		out := f.out.String()
		assert.Contains(t, out, "BONAFIDE CERTIFICATE")
		assert.Contains(t, out, "Approved: 2026-03-04")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cert.json")

		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().DownloadCertificate(gomock.Any(), int64(12)).Return(snapshot, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"download", "-id", "12", "-o", path}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got models.CertificateSnapshot
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "21CS001", got.StudentRegNo)
	})

	t.Run("not approved", func(t *testing.T) {
		f := newAppFixture(t, "tok")
		f.adapter.EXPECT().DownloadCertificate(gomock.Any(), int64(12)).
			Return(models.CertificateSnapshot{}, fmt.Errorf("%w: Certificate not yet approved", adapter.ErrBadRequest))

		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"download", "-id", "12"}), adapter.ErrBadRequest)
	})
}

func TestVersion(t *testing.T) {
	f := newAppFixture(t, "")
	f.adapter.EXPECT().Version(gomock.Any()).Return("1.0.0", nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"version"}))
	assert.Equal(t, "server version: 1.0.0\n", f.out.String())
}
