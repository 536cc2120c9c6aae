// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for carrying the caller session in a context, hashing
// passwords and reset tokens, HTTP response writing, HTTP client
// initialization, and session token generation and validation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-cert-flow/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SessionCtxKey is the key used to store the verified caller session in the
// context. Use WithSession and GetSessionFromContext rather than accessing
// the key directly.
var SessionCtxKey = contextKey("session")

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, SessionCtxKey, session)
}

// GetSessionFromContext retrieves the caller session from the context.
//
// Returns the session and an ok flag:
//   - ok == true: a session is present
//   - ok == false: the request is anonymous
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(SessionCtxKey).(models.Session)
	return session, ok
}
