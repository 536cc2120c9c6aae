// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the session middleware when reading the caller's
// token. Callers can match against them with [errors.Is].
var (
	// ErrNoSessionToken is returned when the request carries neither an
	// "Authorization" header nor a session cookie.
	ErrNoSessionToken = errors.New("no session token in request")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidCertificateID is returned when a path id is not a positive
	// integer.
	ErrInvalidCertificateID = errors.New("invalid certificate id")
)
