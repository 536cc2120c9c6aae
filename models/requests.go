// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LoginKind selects how a login identifier is resolved.
type LoginKind string

const (
	// LoginStudent resolves the identifier as a registration number.
	LoginStudent LoginKind = "student"

	// LoginReviewer resolves the identifier as an email of a reviewer.
	LoginReviewer LoginKind = "admin"
)

// RegisterRequest is the self-registration payload of a student.
type RegisterRequest struct {
	Name       string `json:"name"`
	RegNo      string `json:"reg_no"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Semester   string `json:"semester"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// LoginRequest is the authentication payload. An empty LoginType means
// [LoginStudent].
type LoginRequest struct {
	Identifier string    `json:"identifier"`
	Password   string    `json:"password"`
	LoginType  LoginKind `json:"login_type"`
}

// ForgotPasswordRequest asks for a password-reset token.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a password-reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SubmitRequest is a student's certificate application.
type SubmitRequest struct {
	CertificateType CertificateType `json:"certificate_type"`
	Purpose         string          `json:"purpose"`
}

// DecisionRequest is a reviewer's verdict on one application.
type DecisionRequest struct {
	ApplicationID int64          `json:"certificate_id"`
	Action        DecisionAction `json:"action"`
}
