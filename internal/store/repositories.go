package store

import "github.com/MKhiriev/go-cert-flow/internal/logger"

// Repositories bundles every repository backed by one database handle.
type Repositories struct {
	AccountRepository     AccountRepository
	ApplicationRepository ApplicationRepository
}

func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		AccountRepository:     NewAccountRepository(db, logger),
		ApplicationRepository: NewApplicationRepository(db, logger),
	}
}
