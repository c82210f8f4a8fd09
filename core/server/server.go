package server

import (
	"fmt"

	"workspace-api/core/cache"
	"workspace-api/core/config"
	"workspace-api/core/database"
	"workspace-api/core/logger"
	coremw "workspace-api/core/middleware"
	"workspace-api/core/utils"
	"workspace-api/modules/contact"
	"workspace-api/modules/meeting"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run boots the HTTP API: config, logging, storage, cache, routes.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	viewCache, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: utils.GenerateID,
	}))
	e.Use(echomw.CORS())

	mw := coremw.New(cfg)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	meeting.Init(e, db, viewCache, mw)
	contact.Init(e, db, mw)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server", "addr", addr)
	return e.Start(addr)
}
