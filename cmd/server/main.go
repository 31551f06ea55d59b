package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/api"
	"github.com/rd-risk-mcp-server/internal/app"
	"github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/logging"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize services")
	}

	server := api.NewServer(configManager, api.Dependencies{
		Assessment: application.Assessment,
		Sessions:   application.Session,
		Catalog:    application.Catalog,
		Stats:      application.Recorder,
		Health:     application.Health,
	}, logger)

	logger.WithFields(logrus.Fields{
		"host":            cfg.Server.Host,
		"port":            cfg.Server.Port,
		"counter_backend": cfg.Counter.Backend,
	}).Info("Starting retinal detachment risk server")

	exitCode := 0
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		exitCode = 1
	}

	if err := application.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close counter store")
	}

	logger.Info("Server stopped")
	os.Exit(exitCode)
}
