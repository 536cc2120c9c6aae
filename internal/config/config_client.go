package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// TokenFile is the path where the session token is persisted.
	TokenFile string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport address, timeout and token storage.
	Adapter ClientAdapter
}

// GetClientConfig builds and validates a client-specific config view.
//
// Unlike [GetStructuredConfig] it does not parse command-line flags, which
// belong to the client's subcommands; sources are environment variables,
// the JSON file named by CONFIG, and defaults.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		withDefaults().
		merge()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			TokenFile:      cfg.Adapter.TokenFile,
		},
	}

	return clientCfg, clientCfg.validate()
}
