package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/models"
)

// SeedReviewers ensures the configured HOD and principal accounts exist.
// A reviewer with an empty email is skipped.
func SeedReviewers(ctx context.Context, auth AuthService, seed config.Seed, logger *logger.Logger) error {
	reviewers := []struct {
		role models.Role
		cfg  config.Reviewer
	}{
		{role: models.RoleHOD, cfg: seed.HOD},
		{role: models.RolePrincipal, cfg: seed.Principal},
	}

	for _, r := range reviewers {
		if r.cfg.Email == "" {
			logger.Debug().Str("role", string(r.role)).Msg("no reviewer seed configured")
			continue
		}

		created, err := auth.EnsureReviewer(ctx, models.ReviewerSeed{
			Name:       r.cfg.Name,
			Email:      r.cfg.Email,
			Password:   r.cfg.Password,
			Department: r.cfg.Department,
			Role:       r.role,
		})
		if err != nil {
			return fmt.Errorf("error seeding %s: %w", r.role, err)
		}

		logger.Info().Str("role", string(r.role)).Bool("created", created).Msg("reviewer seed checked")
	}

	return nil
}
