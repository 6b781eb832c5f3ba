// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the triage TUI.
//
// It hosts two tabs. The Chat tab (F1) is a free-text consultation whose
// replies are typed out. The Symptoms tab (F2) pairs the intake form with the
// analysis panel, driven by a session.Controller. The root model also owns
// the toasts, the emergency contacts modal, the idle watchdog and live config
// reloads.
package app
