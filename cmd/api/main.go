package main

import (
	"os"

	"github.com/osahq/conduct/internal/pkg/logger"
	"github.com/osahq/conduct/internal/server"
)

// @title Conduct API
// @version 1.0
// @description Student disciplinary tracking and eligibility decision service for the Office of Student Affairs.

// @contact.name OSA Systems
// @contact.email osa-systems@chmsu.edu.ph

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	// NewServer runs the full bootstrap chain: config and logger, database
	// with migrations and seeds, dependency wiring, router.
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives or the listener fails.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
