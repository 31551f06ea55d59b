// Package app wires the configured stores and services into one object graph shared by the
// HTTP server, the MCP server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/counter"
	"github.com/rd-risk-mcp-server/internal/database"
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/health"
	"github.com/rd-risk-mcp-server/internal/i18n"
	"github.com/rd-risk-mcp-server/internal/schema"
	"github.com/rd-risk-mcp-server/internal/service"
	"github.com/rd-risk-mcp-server/internal/session"
)

// App holds everything a front end needs
type App struct {
	Config     *domain.Config
	DB         *database.DB
	Recorder   *counter.Recorder
	Sessions   *session.MemoryStore
	Assessment *service.AssessmentService
	Session    *service.SessionService
	Catalog    *i18n.Catalog
	Health     *health.Checker
	logger     *logrus.Logger
}

// New opens the counter backend, running migrations first when it is postgres and
// auto_migrate is set. The caller owns the result and must Close it.
func New(ctx context.Context, configManager domain.ConfigManager, logger *logrus.Logger) (*App, error) {
	cfg := configManager.GetConfig()
	a := &App{Config: cfg, logger: logger}

	catalog, err := i18n.Load(cfg.MCP.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	questionnaire := schema.RetinalDetachment()
	if err := catalog.Validate(questionnaire); err != nil {
		return nil, fmt.Errorf("translations do not cover the questionnaire: %w", err)
	}
	a.Catalog = catalog

	if cfg.Counter.Backend == domain.CounterBackendPostgres {
		if cfg.Database.AutoMigrate {
			if err := Migrate(ctx, configManager.GetDatabaseURL(), logger); err != nil {
				return nil, err
			}
		}
		a.DB, err = database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	store, err := counter.Open(ctx, cfg, a.DB, logger)
	if err != nil {
		a.closeDB()
		return nil, err
	}
	a.Recorder = counter.NewRecorder(store, cfg.Counter, logger)

	a.Sessions = session.NewMemoryStore(cfg.Session.MaxItems, cfg.Session.TTL)
	a.Assessment = service.NewAssessmentService(questionnaire, logger, a.Recorder)
	a.Session = service.NewSessionService(a.Sessions, a.Assessment, logger)

	a.Health = health.NewChecker(cfg.MCP.ServerVersion, 0, logger)
	a.Health.RegisterCheck(health.NewCapacityCheck("sessions", a.Sessions, capacity(cfg.Session.MaxItems)))
	a.Health.RegisterCheck(health.NewBreakerCheck("counter_breaker", a.Recorder))
	if cfg.Counter.Backend != domain.CounterBackendMemory {
		a.Health.RegisterCheck(health.NewPingCheck("counter_store", a.Recorder.Ping, false, 2, cfg.Counter.Timeout))
	}
	if a.DB != nil {
		a.Health.RegisterCheck(health.NewPingCheck("database", a.DB.Health, false, 1, cfg.Counter.Timeout))
	}

	return a, nil
}

// Close drains pending counter writes and releases the stores
func (a *App) Close() error {
	var err error
	if a.Recorder != nil {
		err = a.Recorder.Close()
	}
	a.closeDB()
	return err
}

func (a *App) closeDB() {
	if a.DB != nil {
		a.DB.Close()
		a.DB = nil
	}
}

// Migrate applies every pending migration to the database at url
func Migrate(ctx context.Context, url string, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(url, logger)
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}
	defer func() {
		if cerr := runner.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close migration runner")
		}
	}()
	return runner.Up(ctx)
}

func capacity(maxItems int) int {
	if maxItems <= 0 {
		return session.DefaultMaxItems
	}
	return maxItems
}
