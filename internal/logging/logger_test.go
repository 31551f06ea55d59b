package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/domain"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       domain.LoggingConfig
		level     logrus.Level
		formatter logrus.Formatter
		out       *os.File
	}{
		{"json defaults", domain.LoggingConfig{Level: "info", Format: "json"}, logrus.InfoLevel, &logrus.JSONFormatter{}, os.Stdout},
		{"text debug", domain.LoggingConfig{Level: "debug", Format: "TEXT"}, logrus.DebugLevel, &logrus.TextFormatter{}, os.Stdout},
		{"bad level falls back", domain.LoggingConfig{Level: "chatty"}, logrus.InfoLevel, &logrus.JSONFormatter{}, os.Stdout},
		{"stderr", domain.LoggingConfig{Level: "warn", Output: "stderr"}, logrus.WarnLevel, &logrus.JSONFormatter{}, os.Stderr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.level, logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.Formatter)
			assert.Equal(t, tt.out, logger.Out)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdrisk.log")

	logger, err := New(domain.LoggingConfig{Level: "info", Output: "file", Filename: path})
	require.NoError(t, err)
	logger.WithField("tier", "LOW").Info("Assessment completed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tier":"LOW"`)

	_, err = New(domain.LoggingConfig{Output: "file"})
	assert.Error(t, err)
}
