// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-cert-flow server. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and finally built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds security and token-lifecycle settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds settings for the command-line client talking to the
	// server over HTTP.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Seed holds the reviewer accounts created at start-up when absent.
	Seed Seed `envPrefix:"SEED_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session JWTs.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the validity window of a session token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost factor used for new hashes.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// ResetTokenHashKey is the HMAC key used to digest password-reset
	// tokens before they are stored.
	// Env: APP_RESET_TOKEN_HASH_KEY
	ResetTokenHashKey string `env:"RESET_TOKEN_HASH_KEY"`

	// ResetTokenTTL is how long an issued password-reset token stays valid.
	// Env: APP_RESET_TOKEN_TTL
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL"`

	// ExposeResetToken makes the forgot-password endpoint return the reset
	// token to the caller. Intended for demos and local development only.
	// Env: APP_EXPOSE_RESET_TOKEN
	ExposeResetToken bool `env:"EXPOSE_RESET_TOKEN"`

	// SecureCookies marks the session cookie Secure.
	// Env: APP_SECURE_COOKIES
	SecureCookies bool `env:"SECURE_COOKIES"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the connection string. A "postgres://" or "postgresql://" DSN
	// selects PostgreSQL; anything else is opened as a SQLite database file
	// (e.g. "file:certs.db?_foreign_keys=on").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds settings of the HTTP client used by the command-line tool.
type Adapter struct {
	// HTTPAddress is the base URL of the server (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// TokenFile is where the client keeps the session token between runs.
	// Env: ADAPTER_TOKEN_FILE
	TokenFile string `env:"TOKEN_FILE"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// ResetTokenPurgeInterval is how often expired password-reset tokens are
	// cleared. Zero disables the worker; expiry is still enforced on use.
	// Env: WORKERS_RESET_TOKEN_PURGE_INTERVAL
	ResetTokenPurgeInterval time.Duration `env:"RESET_TOKEN_PURGE_INTERVAL"`
}

// Seed holds the reviewer accounts ensured at start-up. A reviewer whose
// email is empty is not seeded.
type Seed struct {
	HOD       Reviewer `envPrefix:"HOD_"`
	Principal Reviewer `envPrefix:"PRINCIPAL_"`
}

// Reviewer describes one seeded reviewer account.
type Reviewer struct {
	Name       string `env:"NAME"`
	Email      string `env:"EMAIL"`
	Password   string `env:"PASSWORD"`
	Department string `env:"DEPARTMENT"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (the first source that sets a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
