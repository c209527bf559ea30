package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/handler"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/server"
	"github.com/MKhiriev/go-pass-sync/internal/service"
	"github.com/MKhiriev/go-pass-sync/internal/store"
	"github.com/MKhiriev/go-pass-sync/internal/workers"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/awnumar/memguard"
)

type App struct {
	cfg      *config.ClientConfig
	storages *store.ClientStorages
	services *service.ClientServices
	workers  *workers.Workers
	logger   *logger.Logger
}

// NewApp opens the local storages and wires the sync services, the control
// API (when an address is configured) and the background workers.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	services, err := service.NewClientServices(storages, cfg, buildInfo, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	var srv server.Server
	if cfg.Control.HTTPAddress != "" {
		handlers, err := handler.NewHandlers(services, cfg.Control, logger)
		if err != nil {
			storages.Close()
			return nil, fmt.Errorf("create control handlers: %w", err)
		}
		srv, err = server.NewServer(handlers, cfg.Control, logger)
		if err != nil {
			storages.Close()
			return nil, fmt.Errorf("create control server: %w", err)
		}
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		services: services,
		workers:  workers.NewWorkers(services, srv, cfg.Workers, cfg.Storage.VaultFile, logger),
		logger:   logger,
	}, nil
}

// Run initializes the engine, restores the persisted backend and then either
// performs a single sync or runs the workers until SIGTERM, SIGINT or
// SIGQUIT arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()
	defer a.close()

	syncService := a.services.SyncService
	if err := syncService.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize sync engine: %w", err)
	}

	if !syncService.Rehydrate(ctx) {
		a.logger.Warn().Str("func", "*App.Run").Msg("no backend restored, waiting for configuration")
	}

	if a.cfg.Workers.Once {
		return runOnce(ctx, syncService, a.logger)
	}

	a.logger.Info().Str("func", "*App.Run").Msg("client started")
	err := a.workers.Run(ctx)
	a.logger.Info().Str("func", "*App.Run").Msg("client stopped")
	return err
}

func (a *App) close() {
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Str("func", "*App.close").Msg("error closing storages")
	}
	// wipes every locked buffer, the vault key included
	memguard.Purge()
}

// runOnce performs one sync. Anything but a success is reported as
// ErrSyncFailed so the process exits non-zero.
func runOnce(ctx context.Context, syncService service.ClientSyncService, logger *logger.Logger) error {
	res := syncService.SyncNow(ctx)

	switch res.Kind {
	case service.ResultSuccess:
		logger.Info().Str("func", "runOnce").Msg("sync completed")
		return nil
	case service.ResultConflict:
		logger.Warn().Str("func", "runOnce").Msg("sync stopped on a conflict, resolve it through the control API")
		return fmt.Errorf("%w: unresolved conflict", ErrSyncFailed)
	default:
		if res.Err != nil {
			return errors.Join(ErrSyncFailed, res.Err)
		}
		return ErrSyncFailed
	}
}
