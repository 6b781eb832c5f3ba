// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/logging"
	"github.com/jeranaias/triage-tui/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// =============================================================================
// SHARED STATE
// =============================================================================

// env is resolved once per invocation by the root PersistentPreRunE and
// shared by every subcommand.
type env struct {
	configFlag string
	apiURL     string
	verbose    bool

	configPath string
	cfg        *config.Config
	log        *zap.Logger

	// newAnalyzer is replaced in tests.
	newAnalyzer func(cfg *config.Config, log *zap.Logger) analysis.Analyzer
}

func defaultAnalyzer(cfg *config.Config, log *zap.Logger) analysis.Analyzer {
	return analysis.NewClient(cfg.ClientConfig(log))
}

// setup loads the config and builds the logger. The TUI logs to a file
// because it owns the terminal; every other command logs warnings to stderr.
func (e *env) setup(cmd *cobra.Command, tui bool) error {
	config.SetPath(e.configFlag)
	path, err := config.Path()
	if err != nil {
		return err
	}
	e.configPath = path

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	if e.apiURL != "" {
		cfg.API.BaseURL = e.apiURL
	}
	config.SetGlobal(cfg)
	e.cfg = cfg

	opts := logging.Options{Level: cfg.Logging.Level, Verbose: e.verbose}
	if tui {
		if opts.File, err = cfg.LogPath(); err != nil {
			return err
		}
	} else if !e.verbose {
		opts.Level = "warn"
	}
	log, err := logging.New(opts)
	if err != nil {
		return err
	}
	e.log = log
	log.Debug("configuration loaded", zap.String("path", path), zap.String("command", cmd.Name()))
	return nil
}

// openHistory opens the history database, or returns nil when history is
// disabled.
func (e *env) openHistory() (*storage.History, error) {
	if !e.cfg.Storage.Enabled {
		return nil, nil
	}
	path, err := e.cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path, e.log)
}

func (e *env) close() {
	if e.log != nil {
		_ = e.log.Sync()
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&env{newAnalyzer: defaultAnalyzer})
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "triage",
		Short:         "Terminal symptom analysis assistant",
		Long:          "triage sends symptom descriptions to the medical analysis service and types the results out.\n\n" + analysis.Disclaimer,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, cmd == cmd.Root())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), e)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configFlag, "config", "", "config file (default ~/.triage/config.toml)")
	flags.StringVar(&e.apiURL, "api-url", "", "analysis service base URL")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAskCommand(e),
		newChatCommand(e),
		newHistoryCommand(e),
		newConfigCommand(e),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
