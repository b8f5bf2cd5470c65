package main

import (
	"fmt"
	"os"

	"github.com/movers-solution/movers/internal/authapi"
	"github.com/movers-solution/movers/internal/config"
	"github.com/movers-solution/movers/internal/logger"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init("movers-authapi", cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := authapi.New(cfg.AuthAPI, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth API")
	}

	log.Info().Str("version", version).Msg("Starting movers auth API...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Auth API failed")
	}
}
