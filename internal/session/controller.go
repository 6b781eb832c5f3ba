// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/reveal"
)

// =============================================================================
// STATES
// =============================================================================

// State is the lifecycle state of a Controller.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateComplete
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Status lines shown above the analysis panel.
const (
	StatusIdle      = "Ready for symptom analysis..."
	StatusAnalyzing = "Analyzing symptoms with medical database..."
	StatusComplete  = "Analysis complete - Medical database consulted"
	StatusError     = "Unable to connect to medical database"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the timing of a Controller.
type Config struct {
	// RevealInterval is the time per revealed character (default: 20ms).
	RevealInterval time.Duration

	// CounterInterval is the time per accuracy step (default: 50ms).
	CounterInterval time.Duration

	// CounterMin and CounterMax bound the accuracy target (default: 85-98).
	CounterMin int
	CounterMax int

	// Rand overrides the accuracy target source; see reveal.WithRand.
	Rand func(n int) int

	// Logger receives lifecycle events (default: no-op).
	Logger *zap.Logger
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		RevealInterval:  reveal.DefaultAnalysisInterval,
		CounterInterval: reveal.DefaultCounterInterval,
		CounterMin:      reveal.DefaultCounterMin,
		CounterMax:      reveal.DefaultCounterMax,
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// ResultMsg delivers the outcome of the fetch started for Request.
type ResultMsg struct {
	Request uint64
	Result  *analysis.Result
	Err     error
}

// Fetch runs the analysis off the event loop and reports it as a ResultMsg.
func Fetch(ctx context.Context, a analysis.Analyzer, request uint64, note string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.Analyze(ctx, note)
		return ResultMsg{Request: request, Result: res, Err: err}
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the Idle, Analyzing, Complete and Error cycle for one
// panel. It owns exactly one Scheduler and one Counter, so at most one reveal
// and one accuracy animation are ever live. It is not safe for concurrent
// use; call it from the Bubble Tea Update loop.
type Controller struct {
	log *zap.Logger

	state   State
	request uint64
	result  *analysis.Result
	err     error

	sched   *reveal.Scheduler
	counter *reveal.Counter
	revealH reveal.Handle
	countH  reveal.Handle
}

// NewController creates an idle controller.
func NewController(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.CounterMin == 0 && cfg.CounterMax == 0 {
		cfg.CounterMin, cfg.CounterMax = reveal.DefaultCounterMin, reveal.DefaultCounterMax
	}

	var opts []reveal.CounterOption
	if cfg.Rand != nil {
		opts = append(opts, reveal.WithRand(cfg.Rand))
	}

	return &Controller{
		log:     log.Named("session"),
		sched:   reveal.NewScheduler(cfg.RevealInterval, log),
		counter: reveal.NewCounter(cfg.CounterInterval, cfg.CounterMin, cfg.CounterMax, log, opts...),
	}
}

// Submit begins a new request. Running animations are cancelled and the
// revealed state is cleared before the state moves to Analyzing. The
// returned id must accompany the result.
func (c *Controller) Submit() uint64 {
	c.stopAll()
	c.result = nil
	c.err = nil
	c.request++
	c.setState(StateAnalyzing)
	return c.request
}

// Complete delivers the result for request and starts the reveal and the
// accuracy counter. Results for an older request, or arriving outside
// Analyzing, are dropped and yield a nil command.
func (c *Controller) Complete(request uint64, res *analysis.Result) tea.Cmd {
	if !c.accepts(request) {
		return nil
	}
	if res == nil {
		res = &analysis.Result{}
	}

	r := res.Clone()
	c.result = &r
	c.setState(StateComplete)

	sections := reveal.BuildSections(r)
	c.revealH = c.sched.Start(sections)
	c.countH = c.counter.Start()

	c.log.Info("analysis revealed",
		zap.Uint64("request", request),
		zap.Int("sections", len(sections)),
		zap.Int("accuracy", c.counter.Target()))

	return tea.Batch(c.sched.Next(c.revealH), c.counter.Next(c.countH))
}

// Fail records a failed fetch for request. Nothing is revealed. It reports
// whether the failure was accepted.
func (c *Controller) Fail(request uint64, err error) bool {
	if !c.accepts(request) {
		return false
	}
	c.stopAll()
	c.err = err
	c.setState(StateError)
	c.log.Warn("analysis failed", zap.Uint64("request", request), zap.Error(err))
	return true
}

// Reset cancels everything and returns to Idle. Any fetch still in flight
// is invalidated. Calling Reset repeatedly is harmless.
func (c *Controller) Reset() {
	c.stopAll()
	c.result = nil
	c.err = nil
	if c.state != StateIdle {
		c.request++
	}
	c.setState(StateIdle)
}

// Close stops the timers when the owner is torn down.
func (c *Controller) Close() {
	c.sched.Stop()
	c.counter.Stop()
}

// Update routes fetch results and tick messages to the controller. The bool
// reports whether msg belonged to it.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case ResultMsg:
		if msg.Err != nil {
			c.Fail(msg.Request, msg.Err)
			return nil, true
		}
		return c.Complete(msg.Request, msg.Result), true

	case reveal.TickMsg:
		switch msg.ID {
		case c.sched.ID():
			cmd, err := c.sched.Update(msg)
			if err != nil {
				c.fault(err)
				return nil, true
			}
			return cmd, true
		case c.counter.ID():
			return c.counter.Update(msg), true
		}

	case reveal.DoneMsg:
		if msg.ID == c.sched.ID() || msg.ID == c.counter.ID() {
			return nil, true
		}
	}
	return nil, false
}

// fault handles a cursor invariant violation: the reveal is abandoned and the
// controller lands in Error.
func (c *Controller) fault(err error) {
	c.log.DPanic("reveal state corrupted", zap.Uint64("request", c.request), zap.Error(err))
	c.stopAll()
	c.err = err
	c.setState(StateError)
}

func (c *Controller) accepts(request uint64) bool {
	if request != c.request || c.state != StateAnalyzing {
		c.log.Debug("dropping stale result",
			zap.Uint64("request", request),
			zap.Uint64("current", c.request),
			zap.Stringer("state", c.state))
		return false
	}
	return true
}

func (c *Controller) stopAll() {
	c.sched.Reset()
	c.counter.Reset()
	c.revealH = reveal.Handle{}
	c.countH = reveal.Handle{}
}

func (c *Controller) setState(s State) {
	if c.state != s {
		c.log.Debug("state change", zap.Stringer("from", c.state), zap.Stringer("to", s))
	}
	c.state = s
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Request returns the id of the latest request.
func (c *Controller) Request() uint64 {
	return c.request
}

// Reveal returns the revealed part of the current result.
func (c *Controller) Reveal() reveal.State {
	return c.sched.State()
}

// Accuracy returns the animated accuracy percentage.
func (c *Controller) Accuracy() int {
	return c.counter.Value()
}

// Result returns a copy of the full current result, or nil.
func (c *Controller) Result() *analysis.Result {
	if c.result == nil {
		return nil
	}
	r := c.result.Clone()
	return &r
}

// Err returns the fetch error of the Error state.
func (c *Controller) Err() error {
	return c.err
}

// Live reports whether the reveal and the counter are still animating.
func (c *Controller) Live() (revealing, counting bool) {
	return c.sched.Active(), c.counter.Active()
}

// Settled reports whether a completed result has been fully revealed.
func (c *Controller) Settled() bool {
	return c.state == StateComplete && !c.sched.Active() && !c.counter.Active()
}

// Skip finishes the running reveal and counter at once.
func (c *Controller) Skip() {
	c.sched.Flush(c.revealH)
	c.counter.Finish(c.countH)
}

// StatusText returns the status line for the current state.
func (c *Controller) StatusText() string {
	switch c.state {
	case StateAnalyzing:
		return StatusAnalyzing
	case StateComplete:
		return StatusComplete
	case StateError:
		return StatusError
	default:
		return StatusIdle
	}
}

// SetTiming applies new intervals and accuracy bounds. They take effect on
// the next tick and the next activation respectively.
func (c *Controller) SetTiming(revealInterval, counterInterval time.Duration, min, max int) {
	c.sched.SetInterval(revealInterval)
	c.counter.SetInterval(counterInterval)
	if min != 0 || max != 0 {
		c.counter.SetRange(min, max)
	}
}
