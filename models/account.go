// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the authority an account acts with. It is fixed at creation.
type Role string

const (
	// RoleStudent is a requester: submits applications and downloads
	// approved certificates.
	RoleStudent Role = "student"

	// RoleHOD is the level-1 reviewer (head of department).
	RoleHOD Role = "hod"

	// RolePrincipal is the level-2 reviewer.
	RolePrincipal Role = "principal"
)

// IsReviewer reports whether r is one of the two reviewing authorities.
func (r Role) IsReviewer() bool {
	return r == RoleHOD || r == RolePrincipal
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r.IsReviewer()
}

// Account is a credential record owned by the account store.
//
// PasswordHash and the reset-token fields never leave the server: they are
// excluded from JSON serialization.
type Account struct {
	// AccountID is the store-assigned primary key.
	AccountID int64 `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// RegNo is the registration number. Required and unique for students,
	// empty for reviewers.
	RegNo string `json:"reg_no,omitempty"`

	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
	Semester   string `json:"semester,omitempty"`

	// Email is globally unique.
	Email string `json:"email"`

	Role Role `json:"role"`

	// PasswordHash is the bcrypt digest of the account password.
	PasswordHash string `json:"-"`

	// ResetTokenHash is the keyed digest of the live password-reset token,
	// empty when no reset is in flight.
	ResetTokenHash string `json:"-"`

	// ResetTokenExpiresAt is the absolute expiry of ResetTokenHash.
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// Session builds the identity claims carried by a session token.
func (a Account) Session() Session {
	return Session{
		AccountID: a.AccountID,
		Role:      a.Role,
		Email:     a.Email,
		Name:      a.Name,
		RegNo:     a.RegNo,
	}
}

// ReviewerSeed describes a reviewer account created at startup when no
// account with the same role exists yet.
type ReviewerSeed struct {
	Name       string
	Email      string
	Password   string
	Department string
	Role       Role
}
