// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// Reload is delivered by a Watcher after the config file changed.
// Exactly one of Config and Err is set.
type Reload struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temp file over the original are seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	events chan Reload
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches path and starts delivering reloads on Events.
// Bursts of file events within debounce collapse into one reload.
func NewWatcher(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fsw,
		debounce: debounce,
		log:      log.Named("config"),
		events:   make(chan Reload, 1),
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w, nil
}

// Events returns the channel reloads are delivered on. It is closed by Close.
func (w *Watcher) Events() <-chan Reload {
	return w.events
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.events)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))

		case <-timer.C:
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				w.log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
			} else {
				w.log.Info("config reloaded", zap.String("path", w.path))
			}
			w.deliver(ctx, Reload{Config: cfg, Err: err})
		}
	}
}

// deliver replaces an unread reload with the newer one.
func (w *Watcher) deliver(ctx context.Context, r Reload) {
	select {
	case <-w.events:
	default:
	}
	select {
	case w.events <- r:
	case <-ctx.Done():
	}
}
