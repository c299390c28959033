package main

import (
	"os"
	"path/filepath"

	"github.com/yigit/syllabus/internal/config"
	"github.com/yigit/syllabus/internal/pkg/logger"
	"github.com/yigit/syllabus/internal/server"
)

// @title Syllabus API
// @version 1.0
// @description API for drafting course syllabi: learning outcomes, assessments and stored versions
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token

func main() {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
