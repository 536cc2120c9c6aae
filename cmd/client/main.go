package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-cert-flow/internal/adapter"
	"github.com/MKhiriev/go-cert-flow/internal/client"
	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	var verbose, showVersion bool
	flag.BoolVar(&verbose, "v", false, "verbose logging to stderr")
	flag.BoolVar(&showVersion, "version", false, "print build info and exit")
	flag.Parse()

	if showVersion {
		fmt.Print(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		return
	}

	log := logger.NewCLILogger("cert-flow-client", verbose)
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	app := client.NewApp(
		serverAdapter,
		adapter.NewTokenFile(cfg.Adapter.TokenFile),
		client.NewTerminalPrompter(os.Stdin, os.Stderr),
		os.Stdout,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, client.ErrUnknownCommand) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
