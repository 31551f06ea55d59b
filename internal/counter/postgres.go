package counter

import (
	"context"
	"fmt"

	"github.com/rd-risk-mcp-server/internal/database"
	"github.com/rd-risk-mcp-server/internal/domain"
)

// PostgresStore implements domain.CounterStore on the shared connection pool.
// It expects the assessment_counts table to exist (created via migrations).
type PostgresStore struct {
	db *database.DB
}

var _ domain.CounterStore = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL counter store.
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	if db == nil || db.Pool == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Health(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Increment adds one completed assessment for tier.
func (s *PostgresStore) Increment(ctx context.Context, tier domain.Tier) error {
	if err := validTier(tier); err != nil {
		return err
	}
	query := `
		INSERT INTO assessment_counts (tier, count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (tier) DO UPDATE SET
			count = assessment_counts.count + 1,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.Pool.Exec(ctx, query, string(tier)); err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	return nil
}

// Totals returns the totals overall and per tier.
func (s *PostgresStore) Totals(ctx context.Context) (*domain.CounterTotals, error) {
	rows, err := s.db.Pool.Query(ctx, "SELECT tier, count FROM assessment_counts")
	if err != nil {
		return nil, fmt.Errorf("failed to query counters: %w", err)
	}
	defer rows.Close()

	totals := newTotals()
	for rows.Next() {
		var tier string
		var count int64
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		addTier(totals, tier, count)
	}
	return totals, rows.Err()
}

// Ping verifies the pool can reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close leaves the shared pool open; its owner closes it.
func (s *PostgresStore) Close() error {
	return nil
}
