// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-cert-flow/models"
)

func TestGetSessionFromContext_Present(t *testing.T) {
	want := models.Session{AccountID: 7, Role: models.RoleHOD, Email: "hod@college.edu", Name: "HOD"}
	ctx := WithSession(context.Background(), want)

	got, ok := GetSessionFromContext(ctx)
	if !ok {
		t.Fatal("expected session in context")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestGetSessionFromContext_Missing(t *testing.T) {
	_, ok := GetSessionFromContext(context.Background())
	if ok {
		t.Error("expected no session in empty context")
	}
}

func TestGetSessionFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), SessionCtxKey, "not a session")

	_, ok := GetSessionFromContext(ctx)
	if ok {
		t.Error("expected ok == false for wrong value type")
	}
}

func TestContextKey_String(t *testing.T) {
	if SessionCtxKey.String() != "session" {
		t.Errorf("unexpected key string %q", SessionCtxKey.String())
	}
}
