package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, ".rd-risk", filepath.Base(cfg.DataDir))
	assert.Equal(t, 1000, cfg.SessionMaxItems)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2*time.Second, cfg.CounterTimeout)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_Defaults(t *testing.T) {
	clearLiteEnv(t)

	cfg := LoadLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 1000, cfg.SessionMaxItems)
	assert.Equal(t, "en", cfg.DefaultLocale)
}

func TestLoadLiteConfig_EnvironmentOverrides(t *testing.T) {
	clearLiteEnv(t)

	t.Setenv("RD_RISK_DATA_DIR", "/tmp/test-rd-risk")
	t.Setenv("RD_RISK_SESSION_MAX_ITEMS", "50")
	t.Setenv("RD_RISK_SESSION_TTL", "5m")
	t.Setenv("RD_RISK_COUNTER_TIMEOUT", "500ms")
	t.Setenv("RD_RISK_LOCALE", "es")
	t.Setenv("RD_RISK_LOG_LEVEL", "debug")
	t.Setenv("RD_RISK_LOG_FORMAT", "text")

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/test-rd-risk", cfg.DataDir)
	assert.Equal(t, 50, cfg.SessionMaxItems)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.CounterTimeout)
	assert.Equal(t, "es", cfg.DefaultLocale)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadLiteConfig_InvalidValuesIgnored(t *testing.T) {
	clearLiteEnv(t)

	t.Setenv("RD_RISK_SESSION_MAX_ITEMS", "-3")
	t.Setenv("RD_RISK_SESSION_TTL", "forever")
	t.Setenv("RD_RISK_COUNTER_TIMEOUT", "0s")

	cfg := LoadLiteConfig()

	assert.Equal(t, 1000, cfg.SessionMaxItems)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2*time.Second, cfg.CounterTimeout)
}

func TestLiteConfig_CounterDBPath(t *testing.T) {
	cfg := &LiteConfig{DataDir: "/home/user/.rd-risk"}

	assert.Equal(t, "/home/user/.rd-risk/counter.db", cfg.CounterDBPath())
}

func TestLiteConfig_EnsureDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := &LiteConfig{DataDir: dataDir}

	require.NoError(t, cfg.EnsureDataDir())

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func clearLiteEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RD_RISK_DATA_DIR", "RD_RISK_SESSION_MAX_ITEMS", "RD_RISK_SESSION_TTL",
		"RD_RISK_COUNTER_TIMEOUT", "RD_RISK_LOCALE", "RD_RISK_LOG_LEVEL", "RD_RISK_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}
