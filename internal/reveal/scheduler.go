// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Default tick intervals.
const (
	DefaultAnalysisInterval = 20 * time.Millisecond
	DefaultChatInterval     = 30 * time.Millisecond
)

// lastID is used to route tick messages to the timer that scheduled them.
var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// =============================================================================
// HANDLES & MESSAGES
// =============================================================================

// Handle identifies one activation of a Scheduler or Counter.
// The zero Handle never owns anything.
type Handle struct {
	epoch uint64
}

// Epoch returns the activation number, for logging.
func (h Handle) Epoch() uint64 {
	return h.epoch
}

// TickMsg asks the timer with the given ID to advance the given activation.
type TickMsg struct {
	ID     int
	Handle Handle
}

// DoneMsg is sent once when an activation finishes on its own.
type DoneMsg struct {
	ID     int
	Handle Handle
}

// TickResult describes what a tick did.
type TickResult int

const (
	// TickStale means the handle was cancelled or superseded; nothing changed.
	TickStale TickResult = iota
	// TickAdvanced means the activation moved forward and wants another tick.
	TickAdvanced
	// TickDone means the activation completed; no further ticks are needed.
	TickDone
)

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler reveals a list of sections one tick at a time.
//
// At most one activation is live. Start cancels the previous one before the
// new handle exists, so ticks scheduled for an old handle are dropped without
// touching the state. A Scheduler is not safe for concurrent use; drive it
// from a single goroutine.
type Scheduler struct {
	id       int
	interval time.Duration
	log      *zap.Logger

	epoch  uint64
	active bool

	sections []Section
	cursor   Cursor
	state    State
	ticks    int
}

// NewScheduler creates an idle scheduler that ticks every interval.
// A non-positive interval falls back to DefaultAnalysisInterval.
func NewScheduler(interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultAnalysisInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	id := nextID()
	return &Scheduler{
		id:       id,
		interval: interval,
		log:      log.Named("reveal").With(zap.Int("timer", id)),
	}
}

// ID returns the identifier carried by this scheduler's messages.
func (s *Scheduler) ID() int {
	return s.id
}

// Interval returns the tick interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// SetInterval changes the interval used by subsequent Next calls.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start cancels any running activation, clears the state and begins
// revealing sections. The returned handle owns the new activation.
func (s *Scheduler) Start(sections []Section) Handle {
	s.Stop()

	s.epoch++
	s.active = true
	s.sections = sections
	s.cursor = Cursor{}
	s.state = State{}
	s.ticks = 0

	s.log.Debug("reveal started",
		zap.Uint64("epoch", s.epoch),
		zap.Int("sections", len(sections)))
	return Handle{epoch: s.epoch}
}

// Cancel stops the activation owned by h. The revealed state is kept as is.
// It reports whether h was live; cancelling a stale handle does nothing.
func (s *Scheduler) Cancel(h Handle) bool {
	if !s.Owns(h) {
		return false
	}
	s.Stop()
	return true
}

// Stop cancels whatever activation is running.
func (s *Scheduler) Stop() {
	if !s.active {
		return
	}
	s.log.Debug("reveal cancelled",
		zap.Uint64("epoch", s.epoch),
		zap.Int("ticks", s.ticks))
	s.active = false
	s.epoch++
}

// Reset stops any activation and discards the revealed state.
func (s *Scheduler) Reset() {
	s.Stop()
	s.sections = nil
	s.cursor = Cursor{}
	s.state = State{}
	s.ticks = 0
}

// Owns reports whether h is the live activation.
func (s *Scheduler) Owns(h Handle) bool {
	return s.active && h.epoch == s.epoch
}

// Active reports whether an activation is running.
func (s *Scheduler) Active() bool {
	return s.active
}

// Handle returns the handle of the running activation, or the zero Handle.
func (s *Scheduler) Handle() Handle {
	if !s.active {
		return Handle{}
	}
	return Handle{epoch: s.epoch}
}

// State returns a copy of the revealed state.
func (s *Scheduler) State() State {
	return s.state.Clone()
}

// Sections returns the sections of the current or last activation.
func (s *Scheduler) Sections() []Section {
	return s.sections
}

// Ticks returns the number of ticks applied to the current activation.
func (s *Scheduler) Ticks() int {
	return s.ticks
}

// Tick advances the activation owned by h by one step.
//
// An invariant violation stops the activation and is returned; the state is
// left at the last consistent value.
func (s *Scheduler) Tick(h Handle) (TickResult, error) {
	if !s.Owns(h) {
		return TickStale, nil
	}

	cursor, state, done, err := Step(s.cursor, s.state, s.sections)
	if err != nil {
		s.log.Error("reveal invariant violated", zap.Uint64("epoch", h.epoch), zap.Error(err))
		s.Stop()
		return TickDone, err
	}
	if done {
		s.log.Debug("reveal complete", zap.Uint64("epoch", h.epoch), zap.Int("ticks", s.ticks))
		s.active = false
		return TickDone, nil
	}

	s.cursor = cursor
	s.state = state
	s.ticks++
	return TickAdvanced, nil
}

// Flush reveals the rest of the activation owned by h at once and finishes
// it. It reports whether h was live.
func (s *Scheduler) Flush(h Handle) bool {
	if !s.Owns(h) {
		return false
	}
	s.state = Final(s.sections)
	s.cursor = Cursor{Section: len(s.sections)}
	s.active = false
	return true
}

// Next schedules the following tick for h.
func (s *Scheduler) Next(h Handle) tea.Cmd {
	id := s.id
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Handle: h}
	})
}

// Update applies a tick message. Messages for other timers or stale handles
// return a nil command. When the activation completes the returned command
// emits a DoneMsg.
func (s *Scheduler) Update(msg TickMsg) (tea.Cmd, error) {
	if msg.ID != s.id {
		return nil, nil
	}

	res, err := s.Tick(msg.Handle)
	if err != nil {
		return nil, err
	}

	switch res {
	case TickAdvanced:
		return s.Next(msg.Handle), nil
	case TickDone:
		done := DoneMsg{ID: s.id, Handle: msg.Handle}
		return func() tea.Msg { return done }, nil
	default:
		return nil, nil
	}
}
