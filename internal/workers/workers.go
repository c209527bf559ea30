package workers

import (
	"context"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/server"
	"github.com/MKhiriev/go-pass-sync/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers assembles the workers enabled by cfg. srv may be nil when the
// control API is disabled.
func NewWorkers(services *service.ClientServices, srv server.Server, cfg config.ClientWorkers, vaultFile string, logger *logger.Logger) *Workers {
	w := &Workers{logger: logger}

	w.workers = append(w.workers, &syncJobWorker{job: services.SyncJob})

	if cfg.WatchVault && vaultFile != "" {
		syncService, job := services.SyncService, services.SyncJob
		w.workers = append(w.workers, newVaultWatcher(vaultFile, func(ctx context.Context) {
			syncService.MarkPending(ctx)
			job.Trigger()
		}, logger))
	}

	if srv != nil {
		w.workers = append(w.workers, &serverWorker{server: srv})
	}

	logger.Info().Int("count", len(w.workers)).Bool("watch_vault", cfg.WatchVault).Msg("workers created")
	return w
}

// Run starts every worker and blocks until all of them have returned. The
// first error cancels the rest and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}

// syncJobWorker keeps the periodic sync job running for the lifetime of ctx.
// One sync is requested right after start.
type syncJobWorker struct {
	job service.ClientSyncJob
}

func (w *syncJobWorker) Run(ctx context.Context) error {
	if err := w.job.Start(ctx); err != nil {
		return err
	}
	w.job.Trigger()

	<-ctx.Done()
	w.job.Stop()
	return nil
}

type serverWorker struct {
	server server.Server
}

func (w *serverWorker) Run(ctx context.Context) error {
	return w.server.RunServer(ctx)
}
