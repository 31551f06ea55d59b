// Package mcp exposes the screening questionnaire over the Model Context Protocol.
// This file contains the lightweight server that requires no external services.
package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	litecfg "github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/counter"
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/schema"
	"github.com/rd-risk-mcp-server/internal/service"
	"github.com/rd-risk-mcp-server/internal/session"
)

// LiteServer is a lightweight MCP server that requires no external services.
// Sessions live in memory and the completion counter is a local SQLite file.
type LiteServer struct {
	config       *litecfg.LiteConfig
	server       *Server
	counterStore domain.CounterStore
	recorder     *counter.Recorder
	sessions     *session.MemoryStore
	logger       *logrus.Logger
}

// LiteServerOption is a functional option for LiteServer.
type LiteServerOption func(*LiteServer) error

// WithCounterStore sets a custom counter store.
func WithCounterStore(store domain.CounterStore) LiteServerOption {
	return func(s *LiteServer) error {
		s.counterStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) LiteServerOption {
	return func(s *LiteServer) error {
		s.logger = logger
		return nil
	}
}

// NewLiteServer creates a new lightweight MCP server instance.
func NewLiteServer(cfg *litecfg.LiteConfig, opts ...LiteServerOption) (*LiteServer, error) {
	server := &LiteServer{
		config: cfg,
		logger: logrus.New(),
	}

	// stdout carries the protocol
	server.logger.SetOutput(os.Stderr)
	if cfg.LogFormat == "text" {
		server.logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		server.logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	server.logger.SetLevel(level)

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.counterStore == nil {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := counter.NewSQLiteStore(cfg.CounterDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create counter store: %w", err)
		}
		server.counterStore = store
	}
	server.recorder = counter.NewRecorder(server.counterStore, domain.CounterConfig{
		Timeout: cfg.CounterTimeout,
	}, server.logger)

	catalog, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		server.closeCounter()
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	questionnaire := schema.RetinalDetachment()
	if err := catalog.Validate(questionnaire); err != nil {
		server.closeCounter()
		return nil, fmt.Errorf("translations do not cover the questionnaire: %w", err)
	}

	assessment := service.NewAssessmentService(questionnaire, server.logger, server.recorder)
	server.sessions = session.NewMemoryStore(cfg.SessionMaxItems, cfg.SessionTTL)

	server.server, err = NewServer(ServerInfo{
		Name:    "rd-risk-mcp-server-lite",
		Version: "v0.1.0",
	}, Dependencies{
		Assessment: assessment,
		Sessions:   service.NewSessionService(server.sessions, assessment, server.logger),
		Catalog:    catalog,
		Stats:      server.recorder,
	}, server.logger)
	if err != nil {
		server.closeCounter()
		return nil, err
	}

	server.logger.Info("Lite server initialized successfully")
	return server, nil
}

// Start starts the lite MCP server.
func (s *LiteServer) Start(ctx context.Context) error {
	return s.server.Start(ctx)
}

// Close waits for pending counter writes and releases the counter store.
func (s *LiteServer) Close() error {
	s.closeCounter()
	return nil
}

func (s *LiteServer) closeCounter() {
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close counter store")
		}
		return
	}
	if s.counterStore != nil {
		if err := s.counterStore.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close counter store")
		}
	}
}

// Server returns the underlying tool server.
func (s *LiteServer) Server() *Server {
	return s.server
}
