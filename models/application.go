// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CertificateType is the kind of certificate requested.
type CertificateType string

const (
	Bonafide CertificateType = "Bonafide"
	Study    CertificateType = "Study"
)

// Valid reports whether t is one of the recognized certificate kinds.
func (t CertificateType) Valid() bool {
	return t == Bonafide || t == Study
}

// ReviewStatus is the state of a single review track, and of the derived
// final status.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "Pending"
	StatusApproved ReviewStatus = "Approved"
	StatusRejected ReviewStatus = "Rejected"
)

// Application is a certificate request.
//
// The requester fields are a snapshot taken at submission and are never
// updated afterwards. Only the two review tracks change, and only through
// the workflow service.
//
// FinalStatus and RenderReady are derived from the tracks by [Derive] and
// are not persisted.
type Application struct {
	ID int64 `json:"id"`

	StudentRegNo string `json:"student_reg_no"`
	StudentName  string `json:"student_name"`
	Department   string `json:"department"`
	Year         string `json:"year"`
	Semester     string `json:"semester"`

	CertificateType CertificateType `json:"certificate_type"`
	Purpose         string          `json:"purpose"`
	AppliedAt       time.Time       `json:"applied_date"`

	Level1Status    ReviewStatus `json:"hod_status"`
	Level1DecidedAt *time.Time   `json:"hod_decided_date,omitempty"`
	Level2Status    ReviewStatus `json:"principal_status"`
	Level2DecidedAt *time.Time   `json:"principal_decided_date,omitempty"`

	FinalStatus ReviewStatus `json:"final_status"`
	RenderReady bool         `json:"render_ready"`

	// Version is the optimistic-lock counter, bumped by every decision.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Application model.
func (a Application) TableName() string {
	return "applications"
}

// Derive recomputes FinalStatus and RenderReady from the review tracks.
// A rejection on either track is final; approval requires level 2.
func (a *Application) Derive() {
	switch {
	case a.Level1Status == StatusRejected || a.Level2Status == StatusRejected:
		a.FinalStatus = StatusRejected
	case a.Level2Status == StatusApproved:
		a.FinalStatus = StatusApproved
	default:
		a.FinalStatus = StatusPending
	}
	a.RenderReady = a.FinalStatus == StatusApproved
}

// Snapshot returns the renderable projection of the application.
func (a Application) Snapshot() CertificateSnapshot {
	return CertificateSnapshot{
		StudentName:           a.StudentName,
		StudentRegNo:          a.StudentRegNo,
		Department:            a.Department,
		Year:                  a.Year,
		Semester:              a.Semester,
		CertificateType:       a.CertificateType,
		Purpose:               a.Purpose,
		AppliedDate:           a.AppliedAt,
		PrincipalApprovedDate: a.Level2DecidedAt,
	}
}

// CertificateSnapshot is the data a renderer needs to lay out an approved
// certificate.
type CertificateSnapshot struct {
	StudentName           string          `json:"student_name"`
	StudentRegNo          string          `json:"student_reg_no"`
	Department            string          `json:"department"`
	Year                  string          `json:"year"`
	Semester              string          `json:"semester"`
	CertificateType       CertificateType `json:"certificate_type"`
	Purpose               string          `json:"purpose"`
	AppliedDate           time.Time       `json:"applied_date"`
	PrincipalApprovedDate *time.Time      `json:"principal_approved_date,omitempty"`
}

// ListScope selects between the reviewer's work queue and every record.
type ListScope string

const (
	ScopeDefault ListScope = ""
	ScopeAll     ListScope = "all"
)

// ApplicationFilter narrows an application query. Nil fields are not
// applied.
type ApplicationFilter struct {
	StudentRegNo *string
	Level1Status *ReviewStatus
	Level2Status *ReviewStatus
}

// DecisionAction is a reviewer's verdict.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// Outcome maps the action to the track status it produces.
func (a DecisionAction) Outcome() (ReviewStatus, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}
