package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/brightclass/roster/internal/pkg/logger"
	"github.com/brightclass/roster/internal/server"
)

func main() {
	// Optional .env for local development; real environments set variables
	// directly
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
