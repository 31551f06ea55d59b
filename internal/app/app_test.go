package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/config"
	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/logging"
	"github.com/rd-risk-mcp-server/internal/schema"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew_MemoryBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	m, err := config.NewManager()
	require.NoError(t, err)

	a, err := New(context.Background(), m, logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Equal(t, "en", a.Catalog.Default().Tag)
	assert.ElementsMatch(t, []string{"sessions", "counter_breaker"}, a.Health.Names())
	assert.Equal(t, schema.RetinalDetachment().Len(), a.Assessment.Schema().Len())
}

func TestNew_SQLiteBackendCountsEvaluations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "counter.db")
	m, err := config.NewManagerWithFile(writeConfig(t, `
counter:
  backend: sqlite
  sqlite_path: `+dbPath+`
mcp:
  default_locale: es
`))
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	ctx := context.Background()
	a, err := New(ctx, m, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, "es", a.Catalog.Default().Tag)
	assert.Contains(t, a.Health.Names(), "counter_store")

	session, err := a.Session.Start(ctx)
	require.NoError(t, err)
	answers := map[string]any{
		"age": 30, "sex": "female", "prior_rd": "no", "cataract_surgery": "no",
		"yag_capsulotomy": "no", "myopia": "no", "retinal_condition": "no", "eye_trauma": "no",
		"diabetes": "no", "family_history": "no", "floaters": "no", "flashes": "none",
		"shadow": "no", "vision_decrease": "no", "pain_double_vision": "no",
		"vision_level": "20_20_or_better", "last_exam": "within_2_years",
		"recent_triggers": "none",
	}
	for id, value := range answers {
		_, err := a.Session.SetAnswer(ctx, session.ID, id, value)
		require.NoError(t, err)
	}
	outcome, err := a.Session.Evaluate(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LOW, outcome.Tier)

	a.Recorder.Wait()
	totals, err := a.Recorder.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.ByTier[domain.LOW])

	status := a.Health.Check(ctx)
	assert.Contains(t, status.Components, "counter_store")

	require.NoError(t, a.Close())
	assert.FileExists(t, dbPath)
}

func TestNew_UnknownBackend(t *testing.T) {
	m, err := config.NewManagerWithFile(writeConfig(t, "counter:\n  backend: etcd\n"))
	require.NoError(t, err)

	_, err = New(context.Background(), m, logging.Discard())
	assert.Error(t, err)
}
