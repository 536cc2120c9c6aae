// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/client_mock.go -package=mock

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes one command line and returns when it is done.
	Run(ctx context.Context, args []string) error
}

// TokenStore keeps the session token between client invocations.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// PasswordPrompter reads a secret from the user without echoing it.
type PasswordPrompter interface {
	Password(label string) (string, error)
}
