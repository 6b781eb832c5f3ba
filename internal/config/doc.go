// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for triage.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the cli package)
//   - Environment variables (TRIAGE_*)
//   - ~/.triage/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := analysis.NewClient(cfg.ClientConfig(log))
//
// A Watcher reloads the file when it changes on disk so the TUI can pick up
// new reveal speeds and theme without a restart.
package config
