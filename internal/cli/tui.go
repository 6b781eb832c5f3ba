// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/ui/app"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// runTUI starts the full-screen interface.
func runTUI(_ context.Context, e *env) error {
	if !IsTTY() || !IsStdoutTTY() {
		return fmt.Errorf("the interactive interface needs a terminal; try 'triage ask'")
	}

	history, err := e.openHistory()
	if err != nil {
		// History is optional; the TUI still works without it.
		e.log.Warn("history disabled", zap.Error(err))
	}
	if history != nil {
		defer history.Close()
	}

	opts := app.Options{
		Config:   e.cfg,
		Analyzer: e.newAnalyzer(e.cfg, e.log),
		History:  history,
		Logger:   e.log,
	}
	if wd, err := os.Getwd(); err == nil {
		opts.ExportDir = wd
	}

	watcher, err := config.NewWatcher(e.configPath, 0, e.log)
	if err != nil {
		e.log.Warn("config hot reload disabled", zap.Error(err))
	} else {
		defer watcher.Close()
		opts.Reloads = watcher.Events()
	}

	return app.Run(styles.NewTheme(e.cfg.UI.Theme), opts)
}
