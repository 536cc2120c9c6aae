package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/handler"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/server"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/store"
	"github.com/MKhiriev/go-cert-flow/internal/workers"
	"github.com/MKhiriev/go-cert-flow/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("cert-flow-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.App.Version == config.DefaultAppVersion && buildVersion != "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	ctx := log.WithContext(context.Background())

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	services, err := service.NewServices(store.NewRepositories(db, log), nil, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if err = service.SeedReviewers(ctx, services.AuthService, cfg.Seed, log); err != nil {
		log.Fatal().Err(err).Msg("error seeding reviewers")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(services, cfg.Workers, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
