package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/robfig/cron/v3"
)

const defaultJobInterval = 5 * time.Minute

var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type clientSyncJob struct {
	syncService ClientSyncService
	cfg         config.ClientWorkers
	logger      *logger.Logger

	// retryDelay is replaced in tests.
	retryDelay func(*SyncError) (time.Duration, bool)

	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	cron   *cron.Cron
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.SyncNow on
// the configured cron schedule or interval and on every Trigger. The job is
// idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, cfg config.ClientWorkers, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		syncService: syncService,
		cfg:         cfg,
		logger:      logger,
		retryDelay:  (*SyncError).RetryDelay,
		trigger:     make(chan struct{}, 1),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that syncs on every tick and every trigger.
// A cron schedule takes precedence over the interval. If neither is set the
// interval defaults to 5 minutes. The goroutine exits when ctx is cancelled
// or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context) error {
	var schedule cron.Schedule
	if j.cfg.SyncSchedule != "" {
		parsed, err := scheduleParser.Parse(j.cfg.SyncSchedule)
		if err != nil {
			return fmt.Errorf("parse sync schedule %q: %w", j.cfg.SyncSchedule, err)
		}
		schedule = parsed
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	var tick <-chan time.Time
	var ticker *time.Ticker
	if schedule != nil {
		j.cron = cron.New(cron.WithParser(scheduleParser))
		j.cron.Schedule(schedule, cron.FuncJob(j.Trigger))
		j.cron.Start()
	} else {
		interval := j.cfg.SyncInterval
		if interval <= 0 {
			interval = defaultJobInterval
		}
		ticker = time.NewTicker(interval)
		tick = ticker.C
	}
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		if ticker != nil {
			defer ticker.Stop()
		}

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-tick:
				j.run(jobCtx)
			case <-j.trigger:
				j.run(jobCtx)
			}
		}
	}()

	j.logger.Info().
		Str("func", "clientSyncJob.Start").
		Str("schedule", j.cfg.SyncSchedule).
		Dur("interval", j.cfg.SyncInterval).
		Msg("sync job started")
	return nil
}

// Trigger implements ClientSyncJob. It never blocks; a trigger arriving while
// one is already queued is dropped.
func (j *clientSyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel, c := j.cancel, j.cron
	j.cancel, j.cron = nil, nil
	j.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// run performs one sync and retries retryable failures up to MaxRetries
// times. After a success old remote versions are cleaned up when
// KeepVersions is set.
func (j *clientSyncJob) run(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		res := j.syncService.SyncNow(ctx)

		switch res.Kind {
		case ResultSuccess:
			j.logger.Debug().Str("func", "clientSyncJob.run").Str("file", res.FileName).Msg("sync completed")
			if j.cfg.KeepVersions > 0 {
				j.syncService.Cleanup(ctx, j.cfg.KeepVersions)
			}
			return
		case ResultConflict:
			j.logger.Warn().Str("func", "clientSyncJob.run").Msg("sync conflict needs resolution")
			return
		}

		delay, retryable := j.retryDelay(res.Err)
		if !retryable || attempt >= j.cfg.MaxRetries {
			j.logger.Err(res.Err).
				Str("func", "clientSyncJob.run").
				Int("attempt", attempt+1).
				Msg("sync failed")
			return
		}

		j.logger.Warn().
			Err(res.Err).
			Str("func", "clientSyncJob.run").
			Int("attempt", attempt+1).
			Dur("retry_in", delay).
			Msg("sync failed, retrying")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
