package counter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// SQLiteStore implements domain.CounterStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ domain.CounterStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite counter store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode: readers do not block the writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the counter table.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessment_counts (
		tier TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}

// Increment adds one completed assessment for tier. The upsert is a single statement so
// concurrent writers never lose an increment.
func (s *SQLiteStore) Increment(ctx context.Context, tier domain.Tier) error {
	if err := validTier(tier); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessment_counts (tier, count, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(tier) DO UPDATE SET
			count = count + 1,
			updated_at = CURRENT_TIMESTAMP
	`, string(tier))
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	return nil
}

// Totals returns the totals overall and per tier.
func (s *SQLiteStore) Totals(ctx context.Context) (*domain.CounterTotals, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tier, count FROM assessment_counts")
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
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

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
