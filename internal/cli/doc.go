// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the triage command line.
//
// Commands:
//
//	triage                    start the TUI
//	triage ask NOTE...        analyze one note and type the reply to stdout
//	triage chat               line-editing consultation REPL
//	triage history [show ID]  list or show recorded analyses
//	triage config ...         inspect and edit ~/.triage/config.toml
//
// Global flags:
//
//	--config FILE   use FILE instead of ~/.triage/config.toml
//	--api-url URL   override api.base_url
//	-v, --verbose   debug logging
package cli
