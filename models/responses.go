package models

// PasswordResetAck is the response to a password-reset request. Its shape
// and Message are the same whether or not the email belongs to an account.
//
// Token is populated only when the server is configured to hand the token
// back to the caller instead of delivering it out of band.
type PasswordResetAck struct {
	Message string  `json:"message"`
	Token   *string `json:"token"`
}

// AuthResponse is returned by signup and login alongside the session token.
type AuthResponse struct {
	Message string `json:"message"`
	Role    Role   `json:"role"`
}

// SessionResponse is returned by the session endpoint. User is nil when
// the caller has no valid session.
type SessionResponse struct {
	User *Session `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ApplicationResponse wraps a single application.
type ApplicationResponse struct {
	Message     string      `json:"message,omitempty"`
	Certificate Application `json:"certificate"`
}

// ApplicationListResponse wraps a list of applications.
type ApplicationListResponse struct {
	Certificates []Application `json:"certificates"`
}

// SnapshotResponse wraps a renderable certificate snapshot.
type SnapshotResponse struct {
	Certificate CertificateSnapshot `json:"certificate"`
}
