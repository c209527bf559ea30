package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pass-sync/models"
)

const (
	defaultRequestTimeout        = 30 * time.Second
	defaultControlRequestTimeout = 30 * time.Second
	defaultSyncInterval          = 15 * time.Minute
	defaultMaxRetries            = 3
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// Cipher is the AEAD engine name passed to crypto.NewEngine.
	Cipher string
	// KeyHex is a hex-encoded vault key, if configured directly.
	KeyHex string
	// KeyEnv is the name of an environment variable holding the hex key.
	KeyEnv string
	// Passphrase is the master passphrase the key is derived from.
	Passphrase string
	// DataType is the artefact this client synchronises.
	DataType models.SyncDataType
	// Version is the configured application version.
	Version string
}

// ClientAdapter holds settings used by the remote storage backends.
type ClientAdapter struct {
	// RequestTimeout is the default timeout for outbound backend requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the sqlite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// VaultFile is the local vault file path.
	VaultFile string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncSchedule string
	SyncInterval time.Duration
	MaxRetries   int
	WatchVault   bool
	KeepVersions int
	Once         bool
}

// ClientControl holds the local control API settings.
type ClientControl struct {
	// HTTPAddress is the listen address; empty disables the API.
	HTTPAddress    string
	RequestTimeout time.Duration
	// Token is the bearer token required by the API; empty disables the check.
	Token string
}

// ClientLog holds log settings.
type ClientLog struct {
	File string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains backend request settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Control contains the local control API settings.
	Control ClientControl
	// Log contains log file settings.
	Log ClientLog
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps cfg onto a [ClientConfig], fills defaults for unset
// timeouts and retry counts, and validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	dataType := models.Vault
	if raw := strings.TrimSpace(cfg.App.DataType); raw != "" {
		parsed, err := models.ParseSyncDataType(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
		}
		dataType = parsed
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Cipher:     strings.ToLower(strings.TrimSpace(cfg.App.Cipher)),
			KeyHex:     strings.TrimSpace(cfg.App.KeyHex),
			KeyEnv:     strings.TrimSpace(cfg.App.KeyEnv),
			Passphrase: cfg.App.Passphrase,
			DataType:   dataType,
			Version:    cfg.App.Version,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
			VaultFile: cfg.Storage.Vault.File,
		},
		Workers: ClientWorkers{
			SyncSchedule: strings.TrimSpace(cfg.Workers.SyncSchedule),
			SyncInterval: cfg.Workers.SyncInterval,
			MaxRetries:   cfg.Workers.MaxRetries,
			WatchVault:   cfg.Workers.WatchVault,
			KeepVersions: cfg.Workers.KeepVersions,
			Once:         cfg.Workers.Once,
		},
		Control: ClientControl{
			HTTPAddress:    cfg.Control.HTTPAddress,
			RequestTimeout: cfg.Control.RequestTimeout,
			Token:          strings.TrimSpace(cfg.Control.Token),
		},
		Log: ClientLog{File: cfg.Log.File},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Control.RequestTimeout == 0 {
		cfg.Control.RequestTimeout = defaultControlRequestTimeout
	}
	if cfg.Workers.SyncSchedule == "" && cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = defaultSyncInterval
	}
	if cfg.Workers.MaxRetries == 0 {
		cfg.Workers.MaxRetries = defaultMaxRetries
	}
}
