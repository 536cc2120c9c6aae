// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// server invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.ResetTokenHashKey == "" {
		return fmt.Errorf("%w: token sign key and reset token hash key are required", ErrInvalidAppConfigs)
	}

	if cfg.App.TokenDuration <= 0 || cfg.App.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidAppConfigs)
	}

	if cfg.App.PasswordHashCost < bcrypt.MinCost || cfg.App.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: password hash cost %d out of range", ErrInvalidAppConfigs, cfg.App.PasswordHashCost)
	}

	if cfg.Workers.ResetTokenPurgeInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	if err := cfg.Seed.HOD.validate(); err != nil {
		return fmt.Errorf("hod: %w", err)
	}
	if err := cfg.Seed.Principal.validate(); err != nil {
		return fmt.Errorf("principal: %w", err)
	}

	return nil
}

func (r Reviewer) validate() error {
	if r.Email == "" {
		return nil
	}
	if r.Password == "" || r.Name == "" {
		return ErrInvalidSeedConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.TokenFile == "" {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
