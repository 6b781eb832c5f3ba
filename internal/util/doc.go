// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small file and text helpers shared by the CLI and TUI.
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - Truncate, Width, PadRight: display-width aware text fitting
package util
