// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Accuracy counter defaults.
const (
	DefaultCounterInterval = 50 * time.Millisecond
	DefaultCounterMin      = 85
	DefaultCounterMax      = 98
)

// Counter counts from zero up to a random target, one step per tick.
// It shares the Handle and message types with Scheduler and follows the same
// single-goroutine rules.
type Counter struct {
	id       int
	interval time.Duration
	min, max int
	intN     func(n int) int
	log      *zap.Logger

	epoch  uint64
	active bool
	value  int
	target int
}

// CounterOption configures a Counter.
type CounterOption func(*Counter)

// WithRand replaces the random source used to draw targets.
// fn must return a value in [0, n).
func WithRand(fn func(n int) int) CounterOption {
	return func(c *Counter) {
		if fn != nil {
			c.intN = fn
		}
	}
}

// NewCounter creates an idle counter whose targets are drawn uniformly from
// [min, max]. Swapped bounds are put back in order.
func NewCounter(interval time.Duration, min, max int, log *zap.Logger, opts ...CounterOption) *Counter {
	if interval <= 0 {
		interval = DefaultCounterInterval
	}
	if min > max {
		min, max = max, min
	}
	if log == nil {
		log = zap.NewNop()
	}
	id := nextID()
	c := &Counter{
		id:       id,
		interval: interval,
		min:      min,
		max:      max,
		intN:     rand.IntN,
		log:      log.Named("counter").With(zap.Int("timer", id)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the identifier carried by this counter's messages.
func (c *Counter) ID() int {
	return c.id
}

// SetInterval changes the interval used by subsequent Next calls.
func (c *Counter) SetInterval(d time.Duration) {
	if d > 0 {
		c.interval = d
	}
}

// SetRange changes the bounds used by the next Start.
func (c *Counter) SetRange(min, max int) {
	if min > max {
		min, max = max, min
	}
	c.min, c.max = min, max
}

// Start cancels any running activation, resets the value to zero and draws a
// new target.
func (c *Counter) Start() Handle {
	c.Stop()

	c.epoch++
	c.active = true
	c.value = 0
	c.target = c.min + c.intN(c.max-c.min+1)

	c.log.Debug("counter started", zap.Uint64("epoch", c.epoch), zap.Int("target", c.target))
	return Handle{epoch: c.epoch}
}

// Cancel halts the activation owned by h and reports whether it was live.
func (c *Counter) Cancel(h Handle) bool {
	if !c.Owns(h) {
		return false
	}
	c.Stop()
	return true
}

// Stop cancels whatever activation is running.
func (c *Counter) Stop() {
	if !c.active {
		return
	}
	c.active = false
	c.epoch++
}

// Reset stops the counter and clears its value and target.
func (c *Counter) Reset() {
	c.Stop()
	c.value = 0
	c.target = 0
}

// Finish jumps the activation owned by h to its target and stops it.
func (c *Counter) Finish(h Handle) bool {
	if !c.Owns(h) {
		return false
	}
	c.value = c.target
	c.active = false
	return true
}

// Owns reports whether h is the live activation.
func (c *Counter) Owns(h Handle) bool {
	return c.active && h.epoch == c.epoch
}

// Active reports whether the counter is running.
func (c *Counter) Active() bool {
	return c.active
}

// Value returns the current count.
func (c *Counter) Value() int {
	return c.value
}

// Target returns the drawn target of the current or last activation.
func (c *Counter) Target() int {
	return c.target
}

// Tick increments the value by one. The first tick that finds the value at
// the target finishes the activation.
func (c *Counter) Tick(h Handle) TickResult {
	if !c.Owns(h) {
		return TickStale
	}
	if c.value >= c.target {
		c.active = false
		return TickDone
	}
	c.value++
	return TickAdvanced
}

// Next schedules the following tick for h.
func (c *Counter) Next(h Handle) tea.Cmd {
	id := c.id
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Handle: h}
	})
}

// Update applies a tick message addressed to this counter.
func (c *Counter) Update(msg TickMsg) tea.Cmd {
	if msg.ID != c.id {
		return nil
	}
	switch c.Tick(msg.Handle) {
	case TickAdvanced:
		return c.Next(msg.Handle)
	case TickDone:
		done := DoneMsg{ID: c.id, Handle: msg.Handle}
		return func() tea.Msg { return done }
	default:
		return nil
	}
}
