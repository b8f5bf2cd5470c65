package main

import (
	"fmt"
	"os"

	"github.com/movers-solution/movers/internal/config"
	"github.com/movers-solution/movers/internal/logger"
	"github.com/movers-solution/movers/internal/web"
	"github.com/movers-solution/movers/internal/workers"
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
	logger.Init("movers-web", cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// Create server
	srv, err := web.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Remove idle sessions in the background
	sweeper, err := workers.NewSweepScheduler(srv.Sessions(), cfg.Session.SweepSchedule, cfg.Session.IdleTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session sweeper")
	}
	sweeper.Start()
	defer sweeper.Stop()

	log.Info().
		Str("version", version).
		Str("backend", cfg.Backend.BaseURL).
		Str("session_store", cfg.Session.Store).
		Msg("Starting movers web front...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server failed")
		sweeper.Stop()
		os.Exit(1)
	}
}
