// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal types out finished analysis results one character at a time.
//
// A result is split into an ordered list of Sections (session id, diagnosis
// list, explanation, examination). A Scheduler walks those sections with an
// explicit Cursor and grows a State mirror of the result by one character per
// tick until the State equals the full result. A Counter animates the
// accuracy percentage alongside it.
//
// # Ticks
//
// The transition itself is the pure function Step. Scheduler and Counter add
// the timer plumbing: every Start bumps an epoch and returns a Handle, and a
// tick carrying a Handle from an older epoch is ignored. This makes restart
// and cancellation safe even when a stale tea.Tick is still in flight.
//
// Both types are driven from a single goroutine, normally the Bubble Tea
// Update loop:
//
//	h := sched.Start(reveal.BuildSections(result))
//	return sched.Next(h)
//
//	// in Update:
//	case reveal.TickMsg:
//	    cmd, err := sched.Update(msg)
//
// Play drives a Scheduler with a time.Ticker for plain terminal output.
//
// # Characters
//
// A character is a rune. Cursor positions are byte offsets that always sit on
// a rune boundary, so every revealed field is a valid UTF-8 prefix of its
// final value.
package reveal
