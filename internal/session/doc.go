// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the lifecycle of one analysis reveal.
//
// # Key Types
//
//   - Controller: Idle/Analyzing/Complete/Error state machine that starts,
//     cancels and resets the reveal Scheduler and accuracy Counter
//   - Watchdog: idle timer that returns the controller to Idle
//   - ResultMsg: Bubble Tea message carrying a fetched result or error
//
// # Usage
//
//	ctrl := session.NewController(session.DefaultConfig())
//	req := ctrl.Submit()
//	return session.Fetch(ctx, client, req, note)
//
//	// in Update:
//	if cmd, ok := ctrl.Update(msg); ok {
//	    return m, cmd
//	}
//
// A result or error carrying an older request id is ignored, as are ticks
// for a cancelled reveal.
package session
