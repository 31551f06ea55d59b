package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/health"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/middleware"
	"github.com/rd-risk-mcp-server/internal/service"
)

// StatsProvider reads the aggregate completion counter
type StatsProvider interface {
	Totals(ctx context.Context) (*domain.CounterTotals, error)
}

// Dependencies are the services the HTTP surface delegates to
type Dependencies struct {
	Assessment *service.AssessmentService
	Sessions   *service.SessionService
	Catalog    *i18n.Catalog
	Stats      StatsProvider
	Health     *health.Checker
}

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	deps          Dependencies
	parser        *service.InputParserService
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, deps Dependencies, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if configManager.IsDevelopment() && cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept-Language", "X-Correlation-ID", "X-Admin-Token"},
		ExposeHeaders: []string{"X-Correlation-ID", "Content-Language"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware())
	}

	server := &Server{
		configManager: configManager,
		logger:        logger,
		deps:          deps,
		parser:        service.NewInputParserService(deps.Assessment.Schema()),
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/schema", s.handleSchema)

		v1.POST("/assessments/missing", s.handleMissing)
		v1.POST("/assessments/evaluate", s.handleEvaluate)

		v1.POST("/sessions", s.handleStartSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.PUT("/sessions/:id/answers/:question", s.handleSetAnswer)
		v1.DELETE("/sessions/:id/answers/:question", s.handleClearAnswer)
		v1.POST("/sessions/:id/evaluate", s.handleEvaluateSession)
		v1.POST("/sessions/:id/reset", s.handleResetSession)

		v1.GET("/admin/stats", s.requireAdmin(), s.handleStats)
	}
}
