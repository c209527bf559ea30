// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-pass-sync client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds key material sources, the cipher choice and the synced data type.
	App App `envPrefix:"APP_"`

	// Storage holds the local state database and the vault file location.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds settings shared by the remote storage backends.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync triggers.
	Workers Workers `envPrefix:"WORKERS_"`

	// Control holds the local control API listener settings.
	Control Control `envPrefix:"CONTROL_"`

	// Log holds log file settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Cipher selects the AEAD engine: "aes-256-gcm" (default) or
	// "xchacha20-poly1305".
	// Env: APP_CIPHER
	Cipher string `env:"CIPHER"`

	// KeyHex is a hex-encoded 32-byte vault key. Takes precedence over
	// Passphrase.
	// Env: APP_KEY_HEX
	KeyHex string `env:"KEY_HEX"`

	// KeyEnv names an environment variable that holds the hex-encoded key.
	// The variable is read when the session unlocks, not at startup.
	// Env: APP_KEY_ENV
	KeyEnv string `env:"KEY_ENV"`

	// Passphrase is the master passphrase the vault key is derived from
	// with argon2id.
	// Env: APP_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// DataType is the artefact this client synchronises: "vault" or "settings".
	// Env: APP_DATA_TYPE
	DataType string `env:"DATA_TYPE"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the local persistence settings.
type Storage struct {
	// DB holds the local sqlite database settings.
	DB DB `envPrefix:"DB_"`

	// Vault holds the location of the local vault file.
	Vault Vault `envPrefix:"VAULT_"`
}

// DB holds connection settings for the local sqlite database.
type DB struct {
	// DSN is the sqlite database file path
	// (e.g. "./data/sync.db" or "file:sync.db?_foreign_keys=on").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Vault holds the local vault file settings.
type Vault struct {
	// File is the path of the encrypted vault (or settings) file that is
	// read before upload and atomically replaced on download.
	// Env: STORAGE_VAULT_FILE
	File string `env:"FILE"`
}

// Adapter holds configuration for the remote storage backends.
type Adapter struct {
	// RequestTimeout is the maximum duration of a single backend request
	// (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncSchedule is a cron expression (robfig/cron, optional seconds
	// field) for the periodic sync. Takes precedence over SyncInterval.
	// Env: WORKERS_SYNC_SCHEDULE
	SyncSchedule string `env:"SYNC_SCHEDULE"`

	// SyncInterval triggers a sync every interval when no schedule is set.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// MaxRetries limits how many times a retryable sync failure is retried
	// within one scheduled run.
	// Env: WORKERS_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// WatchVault enables the file watcher that marks local changes pending
	// and triggers a sync.
	// Env: WORKERS_WATCH_VAULT
	WatchVault bool `env:"WATCH_VAULT"`

	// KeepVersions is the number of remote versions kept by cleanup.
	// Zero disables automatic cleanup after a successful sync.
	// Env: WORKERS_KEEP_VERSIONS
	KeepVersions int `env:"KEEP_VERSIONS"`

	// Once performs a single sync and exits instead of running the workers.
	// Env: WORKERS_ONCE
	Once bool `env:"ONCE"`
}

// Control holds the local control API settings.
type Control struct {
	// HTTPAddress is the loopback address the control API listens on, in
	// "host:port" format. Empty disables the API.
	// Env: CONTROL_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling time of a single control request.
	// Env: CONTROL_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token, when set, is required as a bearer token on every control
	// request.
	// Env: CONTROL_TOKEN
	Token string `env:"TOKEN"`
}

// Log holds logging settings.
type Log struct {
	// File is the rotating log file path. Defaults to logs/sync.log next to
	// the executable.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
