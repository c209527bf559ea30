// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_CIPHER":     "xchacha20-poly1305",
		"APP_KEY_HEX":    "00ff",
		"APP_KEY_ENV":    "VAULT_KEY",
		"APP_PASSPHRASE": "correct horse",
		"APP_DATA_TYPE":  "settings",
		"APP_VERSION":    "1.4.0",

		// Storage has nested prefixes: STORAGE_ + DB_ / VAULT_
		"STORAGE_DB_DSN":     "/var/lib/sync.db",
		"STORAGE_VAULT_FILE": "/var/lib/vault.bin",

		"ADAPTER_REQUEST_TIMEOUT": "20s",

		"WORKERS_SYNC_SCHEDULE": "*/5 * * * *",
		"WORKERS_SYNC_INTERVAL": "10m",
		"WORKERS_MAX_RETRIES":   "4",
		"WORKERS_WATCH_VAULT":   "true",
		"WORKERS_KEEP_VERSIONS": "5",
		"WORKERS_ONCE":          "true",

		"CONTROL_ADDRESS":         "127.0.0.1:7777",
		"CONTROL_REQUEST_TIMEOUT": "5s",

		"LOG_FILE": "/var/log/sync.log",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "xchacha20-poly1305", cfg.App.Cipher)
	assert.Equal(t, "00ff", cfg.App.KeyHex)
	assert.Equal(t, "VAULT_KEY", cfg.App.KeyEnv)
	assert.Equal(t, "correct horse", cfg.App.Passphrase)
	assert.Equal(t, "settings", cfg.App.DataType)
	assert.Equal(t, "1.4.0", cfg.App.Version)

	assert.Equal(t, "/var/lib/sync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/var/lib/vault.bin", cfg.Storage.Vault.File)

	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, "*/5 * * * *", cfg.Workers.SyncSchedule)
	assert.Equal(t, 10*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 4, cfg.Workers.MaxRetries)
	assert.True(t, cfg.Workers.WatchVault)
	assert.Equal(t, 5, cfg.Workers.KeepVersions)
	assert.True(t, cfg.Workers.Once)

	assert.Equal(t, "127.0.0.1:7777", cfg.Control.HTTPAddress)
	assert.Equal(t, 5*time.Second, cfg.Control.RequestTimeout)

	assert.Equal(t, "/var/log/sync.log", cfg.Log.File)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_PASSPHRASE": "secret",
		"STORAGE_DB_DSN": "sync.db",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "secret", cfg.App.Passphrase)
	assert.Equal(t, "sync.db", cfg.Storage.DB.DSN)

	// unset fields keep zero values
	assert.Empty(t, cfg.App.KeyHex)
	assert.Empty(t, cfg.Storage.Vault.File)
	assert.Zero(t, cfg.Workers.SyncInterval)
	assert.False(t, cfg.Workers.WatchVault)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	clearEnvVars(t)

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_SYNC_INTERVAL": "often"})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_MAX_RETRIES": "many"})

	assert.Error(t, parseEnv(&StructuredConfig{}))
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1m", time.Minute},
		{"1h30m", 90 * time.Minute},
		{"500ms", 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setEnvVars(t, map[string]string{"ADAPTER_REQUEST_TIMEOUT": tt.value})

			cfg := &StructuredConfig{}
			require.NoError(t, parseEnv(cfg))
			assert.Equal(t, tt.expected, cfg.Adapter.RequestTimeout)
		})
	}
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_CIPHER",
		"APP_KEY_HEX",
		"APP_KEY_ENV",
		"APP_PASSPHRASE",
		"APP_DATA_TYPE",
		"APP_VERSION",

		"STORAGE_DB_DSN",
		"STORAGE_VAULT_FILE",

		"ADAPTER_REQUEST_TIMEOUT",

		"WORKERS_SYNC_SCHEDULE",
		"WORKERS_SYNC_INTERVAL",
		"WORKERS_MAX_RETRIES",
		"WORKERS_WATCH_VAULT",
		"WORKERS_KEEP_VERSIONS",
		"WORKERS_ONCE",

		"CONTROL_ADDRESS",
		"CONTROL_REQUEST_TIMEOUT",

		"LOG_FILE",
	}
	for _, k := range keys {
		if old, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { _ = os.Setenv(k, old) })
		}
	}
}
