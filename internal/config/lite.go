// Package config provides configuration management for the screening servers.
// This file contains the lightweight configuration for standalone operation.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LiteConfig is a simplified configuration for standalone operation.
// It requires no external services: sessions stay in memory and the counter is a local SQLite file.
type LiteConfig struct {
	// Data storage
	DataDir string // Base directory for the counter database

	// Session settings
	SessionMaxItems int           // Maximum in-progress sessions
	SessionTTL      time.Duration // Idle time before a session expires

	// Counter settings
	CounterTimeout time.Duration // Deadline for one best-effort increment

	// Presentation
	DefaultLocale string // Locale for option labels: en, es, fr

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".rd-risk")

	return &LiteConfig{
		DataDir:         dataDir,
		SessionMaxItems: 1000,
		SessionTTL:      30 * time.Minute,
		CounterTimeout:  2 * time.Second,
		DefaultLocale:   "en",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	if v := os.Getenv("RD_RISK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("RD_RISK_SESSION_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionMaxItems = n
		}
	}
	if v := os.Getenv("RD_RISK_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("RD_RISK_COUNTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CounterTimeout = d
		}
	}

	if v := os.Getenv("RD_RISK_LOCALE"); v != "" {
		cfg.DefaultLocale = v
	}

	if v := os.Getenv("RD_RISK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RD_RISK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// CounterDBPath returns the path to the counter SQLite database.
func (c *LiteConfig) CounterDBPath() string {
	return filepath.Join(c.DataDir, "counter.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *LiteConfig) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}
