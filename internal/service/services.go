package service

import (
	"fmt"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/store"
)

type Services struct {
	AuthService     AuthService
	WorkflowService WorkflowService
	AppInfoService  AppInfoService
}

// NewServices wires every service over repositories. sender receives the
// password-reset tokens; pass nil to use [NewLogResetTokenSender].
func NewServices(repositories *store.Repositories, sender ResetTokenSender, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	if sender == nil {
		sender = NewLogResetTokenSender(logger)
	}

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:     NewAuthService(repositories.AccountRepository, sender, cfg.App, logger),
		WorkflowService: NewWorkflowService(repositories.ApplicationRepository, repositories.AccountRepository, logger),
		AppInfoService:  appInfoService,
	}, nil
}
