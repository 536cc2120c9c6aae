// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the client-facing message strings written into
// {"error": ...} response bodies by the HTTP handlers.
//
// Keeping them in one place keeps the wording consistent between the
// handler error mapping and the middleware.
package app

const (
	// MsgAllFieldsRequired is returned when a required field is blank or
	// the request body cannot be decoded.
	MsgAllFieldsRequired = "All fields are required"

	// MsgInvalidJSON is returned when a request body is not valid JSON.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgPasswordTooShort is returned when a new password is shorter than
	// the minimum length.
	MsgPasswordTooShort = "Password must be at least 6 characters"

	MsgInvalidCertificateType = "Certificate type must be Bonafide or Study"
	MsgInvalidDecision        = "Certificate ID and valid action required"
	MsgInvalidResetToken      = "Invalid or expired reset token"
	MsgNotYetApproved         = "Certificate not yet approved"

	// MsgInvalidCredentials covers every login mismatch: unknown account,
	// wrong password and wrong role.
	MsgInvalidCredentials = "Invalid credentials"

	MsgUnauthorized = "Unauthorized"
	MsgForbidden    = "Forbidden"

	MsgCertificateNotFound = "Certificate not found"
	MsgAccountNotFound     = "Account not found"

	// MsgAlreadyProcessed is returned when a decision loses the race to a
	// concurrent reviewer or the application is no longer pending.
	MsgAlreadyProcessed        = "Certificate already processed"
	MsgHODApprovalRequired     = "Certificate not yet approved by HOD"
	MsgEmailAlreadyRegistered  = "Email already registered"
	MsgRegisterNumberDuplicate = "Register number already exists"

	MsgMethodNotAllowed = "Method not allowed"
	MsgNotFound         = "Not found"
	MsgInvalidGzip      = "Invalid gzip data"

	// MsgInternalServerError is the only body a 5xx response ever carries.
	MsgInternalServerError = "Internal server error"
)
