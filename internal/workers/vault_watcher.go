// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 500 * time.Millisecond

// vaultWatcher calls onChange once a burst of file system events on the
// vault file has settled. The parent directory is watched so atomic
// replaces (write temp file, rename) are seen too.
type vaultWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *logger.Logger
}

func newVaultWatcher(path string, onChange func(ctx context.Context), logger *logger.Logger) *vaultWatcher {
	return &vaultWatcher{
		path:     filepath.Clean(path),
		debounce: defaultWatchDebounce,
		onChange: onChange,
		logger:   logger,
	}
}

func (v *vaultWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create vault watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(v.path)
	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("watch vault directory %s: %w", dir, err)
	}
	v.logger.Info().Str("func", "vaultWatcher.Run").Str("path", v.path).Msg("watching vault file")

	timer := time.NewTimer(v.debounce)
	timer.Stop()
	defer timer.Stop()
	var settled <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !v.relevant(event) {
				continue
			}
			timer.Reset(v.debounce)
			settled = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			v.logger.Err(err).Str("func", "vaultWatcher.Run").Msg("vault watcher error")

		case <-settled:
			settled = nil
			v.logger.Debug().Str("func", "vaultWatcher.Run").Msg("vault file changed")
			v.onChange(ctx)
		}
	}
}

// relevant ignores other files of the directory and chmod-only events.
func (v *vaultWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != v.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
