package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-cert-flow/models"
)

func (a *App) signup(ctx context.Context, args []string) error {
	var request models.RegisterRequest
	var password string

	fs := a.newFlagSet("signup")
	fs.StringVar(&request.Name, "name", "", "full name")
	fs.StringVar(&request.RegNo, "reg-no", "", "registration number")
	fs.StringVar(&request.Department, "department", "", "department")
	fs.StringVar(&request.Year, "year", "", "year of study")
	fs.StringVar(&request.Semester, "semester", "", "semester")
	fs.StringVar(&request.Email, "email", "", "email address")
	fs.StringVar(&password, "password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireFlags(map[string]string{
		"name":       request.Name,
		"reg-no":     request.RegNo,
		"department": request.Department,
		"year":       request.Year,
		"semester":   request.Semester,
		"email":      request.Email,
	}); err != nil {
		return err
	}

	var err error
	if request.Password, err = a.password(password, true); err != nil {
		return err
	}

	response, err := a.adapter.Signup(ctx, request)
	if err != nil {
		return err
	}
	if err = a.tokens.Save(a.adapter.Token()); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (role: %s)\n", response.Message, response.Role)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	var identifier, kind, password string

	fs := a.newFlagSet("login")
	fs.StringVar(&identifier, "id", "", "registration number, or email for reviewers")
	fs.StringVar(&kind, "as", string(models.LoginStudent), "login type: student or admin")
	fs.StringVar(&password, "password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireFlags(map[string]string{"id": identifier}); err != nil {
		return err
	}

	secret, err := a.password(password, false)
	if err != nil {
		return err
	}

	response, err := a.adapter.Login(ctx, models.LoginRequest{
		Identifier: identifier,
		Password:   secret,
		LoginType:  models.LoginKind(kind),
	})
	if err != nil {
		return err
	}
	if err = a.tokens.Save(a.adapter.Token()); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (role: %s)\n", response.Message, response.Role)
	return nil
}

// logout forgets the local token even when the server call fails.
func (a *App) logout(ctx context.Context, _ []string) error {
	logoutErr := a.adapter.Logout(ctx)
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	if logoutErr != nil {
		a.logger.Warn().Err(logoutErr).Msg("server logout failed, local session cleared")
	}

	fmt.Fprintln(a.out, "Logged out successfully")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	session, err := a.adapter.Session(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotLoggedIn
	}

	fmt.Fprintf(a.out, "%s <%s>\n", session.Name, session.Email)
	fmt.Fprintf(a.out, "role: %s\n", session.Role)
	if session.RegNo != "" {
		fmt.Fprintf(a.out, "reg no: %s\n", session.RegNo)
	}
	return nil
}

func (a *App) forgot(ctx context.Context, args []string) error {
	var email string

	fs := a.newFlagSet("forgot")
	fs.StringVar(&email, "email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"email": email}); err != nil {
		return err
	}

	ack, err := a.adapter.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, ack.Message)
	if ack.Token != nil {
		fmt.Fprintf(a.out, "reset token: %s\n", *ack.Token)
	}
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	var token, password string

	fs := a.newFlagSet("reset")
	fs.StringVar(&token, "token", "", "password-reset token")
	fs.StringVar(&password, "password", "", "new password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"token": token}); err != nil {
		return err
	}

	secret, err := a.password(password, true)
	if err != nil {
		return err
	}

	if err = a.adapter.ResetPassword(ctx, models.ResetPasswordRequest{Token: token, Password: secret}); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password reset successfully")
	return nil
}

func (a *App) version(ctx context.Context, _ []string) error {
	v, err := a.adapter.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "server version: %s\n", v)
	return nil
}
