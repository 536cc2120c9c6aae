// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client-side transport for talking to the
// certificate workflow server.
//
// The primary abstraction is [ServerAdapter], which decouples the command
// line client from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-cert-flow/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// certificate workflow server. Implementations are responsible for
// serialisation, session header management, and mapping transport-level
// errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the session token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the session token currently held, or an empty string.
	Token() string

	// Version returns the server's version string.
	Version(ctx context.Context) (string, error)

	// Signup registers a student account. On success the returned session
	// token is stored via SetToken.
	Signup(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates a student or reviewer. On success the returned
	// session token is stored via SetToken.
	Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)

	// Logout ends the session on the server and forgets the local token.
	Logout(ctx context.Context) error

	// Session returns the identity behind the current token, or nil when
	// the server does not recognise it.
	Session(ctx context.Context) (*models.Session, error)

	// ForgotPassword requests a password-reset token for email.
	ForgotPassword(ctx context.Context, email string) (models.PasswordResetAck, error)

	// ResetPassword consumes a password-reset token.
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error

	// ListCertificates returns the caller's view of the applications.
	ListCertificates(ctx context.Context, scope models.ListScope) ([]models.Application, error)

	// SubmitCertificate files a new application for the logged-in student.
	SubmitCertificate(ctx context.Context, request models.SubmitRequest) (models.ApplicationResponse, error)

	// DecideCertificate records a reviewer's verdict.
	DecideCertificate(ctx context.Context, request models.DecisionRequest) (models.ApplicationResponse, error)

	// DownloadCertificate fetches the renderable snapshot of an approved
	// application.
	DownloadCertificate(ctx context.Context, applicationID int64) (models.CertificateSnapshot, error)
}
