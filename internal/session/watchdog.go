// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// IDLE WATCHDOG
// =============================================================================

// Watchdog tracks user inactivity and asks the owner to reset the analysis
// panel once the idle timeout passes.
type Watchdog struct {
	mu sync.Mutex

	lastActivity time.Time
	timeout      time.Duration // zero disables the watchdog
	warnBefore   time.Duration
	warned       bool
	fired        bool

	now func() time.Time
}

// WatchdogConfig holds configuration for the idle watchdog.
type WatchdogConfig struct {
	// Timeout is the idle period after which the panel resets (0 disables).
	Timeout time.Duration

	// WarnBefore is how long before the timeout to emit IdleWarningMsg.
	WarnBefore time.Duration

	// CheckInterval is the polling period of TickCmd (default: 1s).
	CheckInterval time.Duration
}

// DefaultWatchdogConfig returns a 15 minute idle timeout with a 1 minute warning.
func DefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		Timeout:       15 * time.Minute,
		WarnBefore:    time.Minute,
		CheckInterval: time.Second,
	}
}

// NewWatchdog creates a watchdog whose idle period starts now.
func NewWatchdog(cfg WatchdogConfig) *Watchdog {
	w := &Watchdog{
		timeout:    cfg.Timeout,
		warnBefore: cfg.WarnBefore,
		now:        time.Now,
	}
	w.lastActivity = w.now()
	return w
}

// RecordActivity restarts the idle period.
func (w *Watchdog) RecordActivity() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActivity = w.now()
	w.warned = false
	w.fired = false
}

// SetTimeout updates the idle timeout; zero disables the watchdog.
func (w *Watchdog) SetTimeout(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeout = d
}

// IdleTime returns how long since the last activity.
func (w *Watchdog) IdleTime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now().Sub(w.lastActivity)
}

// Remaining returns the time left before the timeout.
func (w *Watchdog) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remainingLocked()
}

func (w *Watchdog) remainingLocked() time.Duration {
	remaining := w.timeout - w.now().Sub(w.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// WatchdogTickMsg is sent periodically to check the idle time.
type WatchdogTickMsg struct {
	Time time.Time
}

// IdleWarningMsg indicates the panel is about to reset.
type IdleWarningMsg struct {
	Remaining time.Duration
}

// IdleMsg indicates the idle timeout passed. It is sent once per idle period.
type IdleMsg struct{}

// TickCmd returns a command that ticks after interval.
func TickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return WatchdogTickMsg{Time: t}
	})
}

// Check evaluates the idle time and returns the message to deliver, if any.
func (w *Watchdog) Check() tea.Msg {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timeout <= 0 || w.fired {
		return nil
	}

	remaining := w.remainingLocked()
	if remaining == 0 {
		w.fired = true
		return IdleMsg{}
	}
	if !w.warned && w.warnBefore > 0 && remaining <= w.warnBefore {
		w.warned = true
		return IdleWarningMsg{Remaining: remaining}
	}
	return nil
}

// HandleTick checks the idle time and schedules the next tick.
func (w *Watchdog) HandleTick(interval time.Duration) tea.Cmd {
	next := TickCmd(interval)
	msg := w.Check()
	if msg == nil {
		return next
	}
	return tea.Batch(func() tea.Msg { return msg }, next)
}
