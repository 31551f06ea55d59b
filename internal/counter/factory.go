package counter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/database"
	"github.com/rd-risk-mcp-server/internal/domain"
)

// Open builds the store selected by cfg.Counter.Backend. db is only used by the postgres
// backend and may be nil otherwise.
func Open(ctx context.Context, cfg *domain.Config, db *database.DB, logger *logrus.Logger) (domain.CounterStore, error) {
	backend := cfg.Counter.Backend
	if backend == "" {
		backend = domain.CounterBackendMemory
	}

	var (
		store domain.CounterStore
		err   error
	)
	switch backend {
	case domain.CounterBackendMemory:
		store = NewMemoryStore()
	case domain.CounterBackendSQLite:
		store, err = NewSQLiteStore(cfg.Counter.SQLitePath)
	case domain.CounterBackendPostgres:
		store, err = NewPostgresStore(ctx, db)
	case domain.CounterBackendRedis:
		store, err = NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown counter backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s counter: %w", backend, err)
	}

	logger.WithField("backend", backend).Info("Assessment counter ready")
	return store, nil
}
