package service

import (
	"errors"
)

// Invalid input.
var (
	ErrInvalidDataProvided    = errors.New("all fields are required")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
	ErrInvalidCertificateType = errors.New("certificate type must be Bonafide or Study")
	ErrInvalidDecisionAction  = errors.New("certificate ID and valid action required")
)

var (
	// ErrInvalidCredentials covers every failed login: unknown identifier,
	// wrong role for the login type, or wrong password.
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrNoSession               = errors.New("unauthorized")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrForbidden = errors.New("forbidden")

	ErrAlreadyReviewed        = errors.New("certificate already processed")
	ErrLevel1ApprovalRequired = errors.New("certificate not yet approved by HOD")

	ErrResetTokenInvalidOrExpired = errors.New("invalid or expired reset token")
	ErrCertificateNotApproved     = errors.New("certificate not yet approved")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
