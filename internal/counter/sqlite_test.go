package counter

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "counter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_IncrementAndTotals(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.Total)
	assert.Len(t, totals.ByTier, 4)

	require.NoError(t, store.Increment(ctx, domain.LOW))
	require.NoError(t, store.Increment(ctx, domain.LOW))
	require.NoError(t, store.Increment(ctx, domain.VERY_HIGH))

	totals, err = store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.Total)
	assert.Equal(t, int64(2), totals.ByTier[domain.LOW])
	assert.Equal(t, int64(0), totals.ByTier[domain.MODERATE])
	assert.Equal(t, int64(1), totals.ByTier[domain.VERY_HIGH])

	assert.ErrorIs(t, store.Increment(ctx, "SEVERE"), domain.ErrInvalidTier)
	assert.NoError(t, store.Ping(ctx))
}

func TestSQLiteStore_ConcurrentIncrements(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Increment(ctx, domain.HIGH))
		}()
	}
	wg.Wait()

	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), totals.ByTier[domain.HIGH])
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Increment(ctx, domain.MODERATE))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	totals, err := reopened.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.ByTier[domain.MODERATE])
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &SQLiteStore{db: db}
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO assessment_counts").
		WithArgs("HIGH").
		WillReturnError(errors.New("database is locked"))
	err = store.Increment(ctx, domain.HIGH)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to increment counter")

	mock.ExpectQuery("SELECT tier, count FROM assessment_counts").
		WillReturnError(errors.New("disk I/O error"))
	_, err = store.Totals(ctx)
	require.Error(t, err)

	rows := sqlmock.NewRows([]string{"tier", "count"}).
		AddRow("LOW", 4).
		AddRow("RETIRED_TIER", 9).
		AddRow("HIGH", 1)
	mock.ExpectQuery("SELECT tier, count FROM assessment_counts").WillReturnRows(rows)
	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
