// Package main provides the MCP entry point backed by the full configuration, so the completion
// counter can live in postgres or redis. Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rd-risk-mcp-server/internal/app"
	"github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/logging"
	"github.com/rd-risk-mcp-server/internal/mcp"
)

func main() {
	log.SetOutput(os.Stderr)

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	loggingCfg := cfg.Logging
	if loggingCfg.Output != "file" {
		loggingCfg.Output = "stderr"
	}
	logger, err := logging.New(loggingCfg)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize services")
	}
	defer application.Close()

	server, err := mcp.NewServer(mcp.ServerInfo{
		Name:    cfg.MCP.ServerName,
		Version: cfg.MCP.ServerVersion,
	}, mcp.Dependencies{
		Assessment: application.Assessment,
		Sessions:   application.Session,
		Catalog:    application.Catalog,
		Stats:      application.Recorder,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("MCP server stopped with error")
		return
	}

	logger.Info("MCP server stopped")
}
