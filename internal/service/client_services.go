package service

import (
	"fmt"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/crypto"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/store"
	"github.com/MKhiriev/go-pass-sync/models"
)

type ClientServices struct {
	SyncService ClientSyncService
	SyncJob     ClientSyncJob
	AppInfo     AppInfoService
}

func NewClientServices(storages *store.ClientStorages, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*ClientServices, error) {
	engine, err := crypto.NewEngine(cfg.App.Cipher)
	if err != nil {
		return nil, fmt.Errorf("create cipher engine: %w", err)
	}

	keys, err := NewKeyProvider(cfg.App, storages.SyncState)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	syncSvc := NewClientSyncService(storages, keys, engine, cfg.App.DataType, logger,
		adapter.WithLogger(logger),
		adapter.WithTimeout(cfg.Adapter.RequestTimeout),
	)

	return &ClientServices{
		SyncService: syncSvc,
		SyncJob:     NewClientSyncJob(syncSvc, cfg.Workers, logger),
		AppInfo:     appInfo,
	}, nil
}

// NewKeyProvider picks the key source in order of precedence: a hex key,
// an environment variable holding a hex key, a passphrase.
func NewKeyProvider(cfg config.ClientApp, salts crypto.SaltStore) (crypto.KeyProvider, error) {
	switch {
	case cfg.KeyHex != "":
		return crypto.NewStaticKeyProvider(cfg.KeyHex), nil
	case cfg.KeyEnv != "":
		return crypto.NewEnvKeyProvider(cfg.KeyEnv), nil
	case cfg.Passphrase != "":
		return crypto.NewPassphraseKeyProvider(cfg.Passphrase, salts), nil
	default:
		return nil, fmt.Errorf("%w: configure a key, a key variable or a passphrase", crypto.ErrKeyUnavailable)
	}
}
