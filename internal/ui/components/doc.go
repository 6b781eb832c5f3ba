// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable pieces of the triage TUI:
// the header with its tabs, toast notifications, the emergency information
// modal, the idle warning overlay and the shortcut bar.
//
// Components render with a *styles.Theme and hold no goroutines; timed
// behavior is driven by tea.Tick commands owned by the app model.
package components
