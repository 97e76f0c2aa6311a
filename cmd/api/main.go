package main

import (
	"os"

	"github.com/yigit/campusdesk/internal/pkg/logger"
	"github.com/yigit/campusdesk/internal/server"
)

// @title CampusDesk API
// @version 1.0
// @description Administration dashboard gateway for the school management backend. Serves cached collections with search, sorting, pagination and derived views.

// @contact.name API Support
// @contact.email support@campusdesk.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued by the backend, as "Bearer <token>"

func main() {
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
}
