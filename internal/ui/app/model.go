// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/session"
	"github.com/jeranaias/triage-tui/internal/storage"
	"github.com/jeranaias/triage-tui/internal/ui/chat"
	"github.com/jeranaias/triage-tui/internal/ui/components"
	"github.com/jeranaias/triage-tui/internal/ui/intake"
	"github.com/jeranaias/triage-tui/internal/ui/panel"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// Tab identifies the visible tab.
type Tab int

const (
	TabChat Tab = iota
	TabSymptoms
)

// Toast copy for analysis outcomes on the Symptoms tab.
const (
	ToastAnalysisDone   = "Comprehensive symptom analysis completed!"
	ToastAnalysisFailed = "Unable to connect to medical database. Please check your connection and try again."
	ToastIdleReset      = "Analysis cleared after inactivity."
	ToastConfigReloaded = "Configuration reloaded."
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReloadMsg carries a config reload from the file watcher.
type ReloadMsg struct {
	Reload config.Reload
}

// HistorySavedMsg reports the outcome of recording an analysis.
type HistorySavedMsg struct {
	ID  int64
	Err error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the root model.
type Options struct {
	// Config supplies timing and presentation (default: config.Default()).
	Config *config.Config

	// Analyzer answers both tabs. Required.
	Analyzer analysis.Analyzer

	// History records completed analyses. Nil disables recording.
	History *storage.History

	// Reloads delivers config file changes. Nil disables live reload.
	Reloads <-chan config.Reload

	// ExportDir receives exported consultations.
	ExportDir string

	// Logger receives diagnostics (default: no-op).
	Logger *zap.Logger
}

// KeyMap defines the global key bindings.
type KeyMap struct {
	Quit      key.Binding
	Chat      key.Binding
	Symptoms  key.Binding
	Emergency key.Binding
	Skip      key.Binding
	Reset     key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
		Chat:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "chat")),
		Symptoms:  key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "symptoms")),
		Emergency: key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("A-e", "emergency")),
		Skip:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "skip")),
		Reset:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "new analysis")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model.
type Model struct {
	tab   Tab
	theme *styles.Theme
	log   *zap.Logger
	cfg   *config.Config

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc

	analyzer analysis.Analyzer
	history  *storage.History
	reloads  <-chan config.Reload

	// Symptoms tab
	ctrl     *session.Controller
	form     intake.Model
	panel    panel.Model
	lastNote string

	chat chat.Model

	header    *components.Header
	statusBar *components.StatusBar
	toasts    *components.ToastManager
	emergency components.EmergencyModal
	idle      components.IdleOverlay
	watchdog  *session.Watchdog
	keyMap    KeyMap
}

// New creates the root model.
func New(theme *styles.Theme, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	ctrl := session.NewController(cfg.SessionConfig(log))

	m := &Model{
		tab:      TabChat,
		theme:    theme,
		log:      log.Named("app"),
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		analyzer: opts.Analyzer,
		history:  opts.History,
		reloads:  opts.Reloads,
		ctrl:     ctrl,
		form:     intake.New(theme),
		panel:    panel.New(theme, ctrl),
		chat: chat.New(theme, chat.Options{
			Context:        ctx,
			Analyzer:       opts.Analyzer,
			TypingInterval: cfg.Reveal.ChatInterval.Duration,
			Markdown:       cfg.UI.Markdown,
			ExportDir:      opts.ExportDir,
			Logger:         log,
		}),
		header:    components.NewHeader(theme, "Chat", "Symptoms"),
		statusBar: components.NewStatusBar(theme),
		toasts:    components.NewToastManager(),
		emergency: components.NewEmergencyModal(theme),
		idle:      components.NewIdleOverlay(theme),
		watchdog:  session.NewWatchdog(cfg.WatchdogConfig()),
		keyMap:    DefaultKeyMap(),
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.form.Init(),
		components.ToastTickCmd(),
		session.TickCmd(m.cfg.WatchdogConfig().CheckInterval),
		m.waitReload(),
	)
}

// Update implements tea.Model. The panel body is re-rendered after every
// message since ticks, results, resets and resizes all move the controller.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	m.panel.Refresh()
	return next, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case intake.SubmitMsg:
		return m, m.submit(msg.Note)

	case session.ResultMsg:
		return m, m.handleResult(msg)

	case HistorySavedMsg:
		if msg.Err != nil {
			m.log.Warn("failed to record analysis", zap.Error(msg.Err))
		}
		return m, nil

	case components.ShowToastMsg:
		m.toasts.Add(msg.Kind, msg.Message)
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Expire(msg.Time)
		return m, components.ToastTickCmd()

	case components.ShowEmergencyMsg:
		m.emergency.Show()
		return m, nil

	case chat.ExportDoneMsg:
		if msg.Err != nil {
			m.toasts.Error("Export failed: " + msg.Err.Error())
		} else {
			m.toasts.Success("Consultation exported to " + msg.Path)
		}
		return m, nil

	case session.WatchdogTickMsg:
		return m, m.watchdog.HandleTick(m.cfg.WatchdogConfig().CheckInterval)

	case session.IdleWarningMsg:
		m.idle.Show(msg.Remaining)
		return m, nil

	case session.IdleMsg:
		m.idle.Hide()
		if m.ctrl.State() != session.StateIdle {
			m.ctrl.Reset()
			m.form.SetBusy(false)
			m.toasts.Info(ToastIdleReset)
		}
		m.log.Info("idle timeout reached")
		return m, nil

	case ReloadMsg:
		m.applyReload(msg.Reload)
		return m, m.waitReload()
	}

	// Ticks and fetch results: the controller first, then the tabs.
	if cmd, ok := m.ctrl.Update(msg); ok {
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	m.panel, cmd = m.panel.Update(msg)
	cmds = append(cmds, cmd)
	if m.tab == TabSymptoms {
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.watchdog.RecordActivity()

	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}
	if m.idle.IsVisible() {
		m.idle.Hide()
		return m, nil
	}
	if m.emergency.IsVisible() {
		var cmd tea.Cmd
		m.emergency, cmd = m.emergency.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Chat):
		m.SetTab(TabChat)
		return m, nil
	case key.Matches(msg, m.keyMap.Symptoms):
		m.SetTab(TabSymptoms)
		return m, nil
	}

	var cmd tea.Cmd
	if m.tab == TabChat {
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Emergency):
		m.emergency.Show()
		return m, nil
	case key.Matches(msg, m.keyMap.Skip) && !m.form.Confirming():
		m.ctrl.Skip()
		return m, nil
	case key.Matches(msg, m.keyMap.Reset):
		m.ctrl.Reset()
		m.form.SetBusy(false)
		return m, nil
	case msg.String() == "pgup" || msg.String() == "pgdown":
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submit starts an analysis of note on the Symptoms tab.
func (m *Model) submit(note string) tea.Cmd {
	if m.ctrl.State() == session.StateAnalyzing {
		return nil
	}
	req := m.ctrl.Submit()
	m.lastNote = note
	m.form.SetBusy(true)
	m.log.Debug("analysis submitted", zap.Uint64("request", req))
	return tea.Batch(
		session.Fetch(m.ctx, m.analyzer, req, note),
		m.panel.StartSpinner(),
	)
}

func (m *Model) handleResult(msg session.ResultMsg) tea.Cmd {
	cmd, _ := m.ctrl.Update(msg)
	if msg.Request != m.ctrl.Request() {
		return cmd
	}
	m.form.SetBusy(false)

	switch m.ctrl.State() {
	case session.StateComplete:
		m.toasts.Success(ToastAnalysisDone)
		return tea.Batch(cmd, m.record(m.lastNote, m.ctrl.Result()))
	case session.StateError:
		m.toasts.Error(ToastAnalysisFailed)
	}
	return cmd
}

// record saves a completed analysis off the event loop.
func (m *Model) record(note string, res *analysis.Result) tea.Cmd {
	if m.history == nil || res == nil {
		return nil
	}
	h, ctx := m.history, m.ctx
	return func() tea.Msg {
		id, err := h.Record(ctx, note, *res)
		return HistorySavedMsg{ID: id, Err: err}
	}
}

func (m *Model) waitReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg{Reload: r}
	}
}

// applyReload pushes new timing, theme and presentation settings into the
// running models. The API endpoint is read once at startup.
func (m *Model) applyReload(r config.Reload) {
	if r.Err != nil {
		m.log.Warn("config reload rejected", zap.Error(r.Err))
		m.toasts.Error("Config reload failed: " + r.Err.Error())
		return
	}
	cfg := r.Config
	m.cfg = cfg
	m.ctrl.SetTiming(
		cfg.Reveal.AnalysisInterval.Duration,
		cfg.Reveal.CounterInterval.Duration,
		cfg.Reveal.CounterMin,
		cfg.Reveal.CounterMax,
	)
	m.chat.SetTypingInterval(cfg.Reveal.ChatInterval.Duration)
	m.chat.SetMarkdown(cfg.UI.Markdown)
	if m.theme.SetMode(cfg.UI.Theme) {
		m.chat.ApplyTheme()
		m.panel.ApplyTheme()
		m.log.Debug("theme changed", zap.String("mode", m.theme.Mode))
	}
	m.watchdog.SetTimeout(cfg.Session.IdleTimeout.Duration)
	m.toasts.Info(ToastConfigReloaded)
	m.log.Info("config reloaded")
}

// SetTab switches the visible tab.
func (m *Model) SetTab(t Tab) {
	m.tab = t
	m.header.SetActive(int(t))
}

// Tab returns the visible tab.
func (m *Model) Tab() Tab {
	return m.tab
}

// Controller returns the Symptoms tab controller.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// Toasts returns the visible toasts, newest first.
func (m *Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// Close cancels in-flight work and stops every timer.
func (m *Model) Close() {
	m.cancel()
	m.ctrl.Close()
	m.chat.Close()
}

// Run starts the program and blocks until it exits.
func Run(theme *styles.Theme, opts Options) error {
	m := New(theme, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
