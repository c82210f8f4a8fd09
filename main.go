package main

import (
	"workspace-api/core/logger"
	"workspace-api/core/server"

	_ "workspace-api/docs" // Swagger docs
)

// @title Workspace API
// @version 1.0
// @description Workspace backend for meetings, recurring series and contacts.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
