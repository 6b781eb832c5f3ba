// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/export"
	"github.com/jeranaias/triage-tui/internal/model"
	"github.com/jeranaias/triage-tui/internal/reveal"
	"github.com/jeranaias/triage-tui/internal/ui/components"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// Phase is where the chat is in the send cycle.
type Phase int

const (
	PhaseReady    Phase = iota // Ready for input
	PhaseThinking              // Waiting for the analysis service
	PhaseTyping                // Revealing the reply
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseThinking:
		return "thinking"
	case PhaseTyping:
		return "typing"
	default:
		return "ready"
	}
}

// Toast texts shown after a request.
const (
	ToastReplyReady  = "Analysis completed successfully!"
	ToastReplyFailed = "Unable to connect to medical database. Please try again."
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg delivers the analysis for the message sent as Seq.
type ReplyMsg struct {
	Seq    uint64
	Result *analysis.Result
	Err    error
}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a chat model.
type Options struct {
	// Context bounds in-flight requests; cancelling it abandons them
	// (default: context.Background()).
	Context context.Context

	// Analyzer answers messages. Required.
	Analyzer analysis.Analyzer

	// TypingInterval is the delay between revealed characters
	// (default: reveal.DefaultChatInterval).
	TypingInterval time.Duration

	// Markdown renders finished replies with glamour.
	Markdown bool

	// ExportDir receives exported consultations (default: ".").
	ExportDir string

	// Logger receives diagnostics (default: no-op).
	Logger *zap.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	phase Phase
	theme *styles.Theme
	log   *zap.Logger
	ctx   context.Context

	// Dimensions
	width  int
	height int

	conversation *model.Conversation
	analyzer     analysis.Analyzer
	exportDir    string

	// seq identifies the latest send; replies for older sends are dropped.
	seq uint64

	// Typing
	typer         *reveal.Scheduler
	typing        reveal.Handle
	pendingReply  string
	pendingResult *analysis.Result

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap
	markdown *markdownCache
	follow   bool
}

// New creates a chat model.
func New(theme *styles.Theme, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	interval := opts.TypingInterval
	if interval <= 0 {
		interval = reveal.DefaultChatInterval
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe your symptoms in detail for accurate analysis..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	sp.Style = theme.ThinkingText

	m := Model{
		phase:        PhaseReady,
		theme:        theme,
		log:          log.Named("chat"),
		ctx:          ctx,
		conversation: model.NewConversation(),
		analyzer:     opts.Analyzer,
		exportDir:    dir,
		typer:        reveal.NewScheduler(interval, log),
		viewport:     viewport.New(80, 20),
		input:        ti,
		spinner:      sp,
		keyMap:       DefaultKeyMap(),
		markdown:     newMarkdownCache(opts.Markdown, theme.GlamourStyle()),
		follow:       true,
	}
	m.refresh()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages. Key messages should only be forwarded while the
// chat tab is active; every other message is safe to forward always.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case reveal.TickMsg:
		if msg.ID != m.typer.ID() {
			return m, nil
		}
		cmd, err := m.typer.Update(msg)
		if err != nil {
			// The full reply is still delivered; only the animation is lost.
			m.log.DPanic("typing stopped on invariant violation", zap.Error(err))
			m.finishTyping()
			return m, nil
		}
		m.refresh()
		return m, cmd

	case reveal.DoneMsg:
		if msg.ID == m.typer.ID() && m.phase == PhaseTyping && msg.Handle == m.typing {
			m.finishTyping()
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != PhaseThinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.Send(m.input.Value())

	case key.Matches(msg, m.keyMap.Skip):
		m.SkipTyping()
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.Clear()
		return m, components.ShowToast(components.ToastInfo, "Chat history cleared.")

	case key.Matches(msg, m.keyMap.Export):
		return m, m.Export(export.NewJSONExporter())

	case key.Matches(msg, m.keyMap.ExportMarkdown):
		return m, m.Export(export.NewMarkdownExporter())

	case key.Matches(msg, m.keyMap.Emergency):
		return m, components.ShowEmergency()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		m.follow = m.viewport.AtBottom()
		return m, nil
	}

	for i, b := range m.keyMap.QuickActions {
		if key.Matches(msg, b) {
			return m.Send(QuickActions[i].Prompt)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SEND CYCLE
// =============================================================================

// Send submits text. It does nothing while busy or when text is blank.
func (m Model) Send(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.Busy() || m.analyzer == nil {
		return m, nil
	}

	m.conversation.AddUser(text)
	m.input.Reset()
	m.phase = PhaseThinking
	m.seq++
	m.follow = true
	m.refresh()

	m.log.Debug("message sent", zap.Uint64("seq", m.seq), zap.Int("chars", len(text)))
	return m, tea.Batch(m.spinner.Tick, m.fetch(m.seq, text))
}

func (m Model) fetch(seq uint64, note string) tea.Cmd {
	a, ctx := m.analyzer, m.ctx
	return func() tea.Msg {
		res, err := a.Analyze(ctx, note)
		return ReplyMsg{Seq: seq, Result: res, Err: err}
	}
}

func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	if msg.Seq != m.seq || m.phase != PhaseThinking {
		m.log.Debug("stale reply dropped", zap.Uint64("seq", msg.Seq), zap.Uint64("current", m.seq))
		return m, nil
	}

	if msg.Err != nil {
		m.log.Warn("analysis failed", zap.Error(msg.Err))
		m.conversation.AddError(analysis.FailureReply(msg.Err))
		m.phase = PhaseReady
		m.refresh()
		return m, components.ShowToast(components.ToastError, ToastReplyFailed)
	}

	reply := analysis.FormatReply(msg.Result)
	if msg.Result != nil {
		r := msg.Result.Clone()
		m.pendingResult = &r
	} else {
		m.pendingResult = nil
	}
	m.pendingReply = reply
	m.phase = PhaseTyping
	m.typing = m.typer.Start(reveal.TextSections(reply))
	m.refresh()

	return m, tea.Batch(
		m.typer.Next(m.typing),
		components.ShowToast(components.ToastSuccess, ToastReplyReady),
	)
}

// SkipTyping reveals the rest of the reply at once.
func (m *Model) SkipTyping() {
	if m.phase != PhaseTyping {
		return
	}
	m.typer.Flush(m.typing)
	m.finishTyping()
}

func (m *Model) finishTyping() {
	m.conversation.AddReply(m.pendingReply, m.pendingResult)
	m.pendingReply = ""
	m.pendingResult = nil
	m.typer.Reset()
	m.phase = PhaseReady
	m.refresh()
}

// Clear cancels typing, drops any in-flight request and restores the
// welcome message.
func (m *Model) Clear() {
	m.typer.Reset()
	m.seq++
	m.pendingReply = ""
	m.pendingResult = nil
	m.phase = PhaseReady
	m.conversation.Clear()
	m.markdown.clear()
	m.follow = true
	m.refresh()
}

// Export writes the conversation off the event loop.
func (m Model) Export(e export.Exporter) tea.Cmd {
	conv := m.snapshot()
	opts := &export.Options{OutputDir: m.exportDir, Now: time.Now}
	log := m.log
	return func() tea.Msg {
		path, err := export.ToFile(conv, e, opts)
		if err != nil {
			log.Warn("export failed", zap.Error(err))
		} else {
			log.Info("consultation exported", zap.String("path", path))
		}
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// snapshot copies the conversation so an export never races later updates.
func (m Model) snapshot() *model.Conversation {
	c := *m.conversation
	c.Messages = make([]*model.Message, len(m.conversation.Messages))
	for i, msg := range m.conversation.Messages {
		cp := *msg
		c.Messages[i] = &cp
	}
	return &c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Phase returns the current phase.
func (m Model) Phase() Phase { return m.phase }

// Busy reports whether input is currently ignored.
func (m Model) Busy() bool { return m.phase != PhaseReady }

// Conversation returns the conversation.
func (m Model) Conversation() *model.Conversation { return m.conversation }

// Typed returns the part of the reply revealed so far.
func (m Model) Typed() string { return m.typer.State().Explanation }

// KeyMap returns the key bindings.
func (m Model) KeyMap() KeyMap { return m.keyMap }

// Status describes the phase for the header line.
func (m Model) Status() string {
	switch m.phase {
	case PhaseThinking:
		return "Analyzing your symptoms..."
	case PhaseTyping:
		return "Typing..."
	default:
		return "Ready to help"
	}
}

// SetTypingInterval changes the typing speed from the next tick on.
func (m *Model) SetTypingInterval(d time.Duration) {
	m.typer.SetInterval(d)
}

// SetMarkdown toggles glamour rendering of finished replies.
func (m *Model) SetMarkdown(on bool) {
	m.markdown.setEnabled(on)
	m.refresh()
}

// ApplyTheme re-reads the styles copied out of the theme after it changed
// mode.
func (m *Model) ApplyTheme() {
	m.spinner.Style = m.theme.ThinkingText
	m.markdown.setStyle(m.theme.GlamourStyle())
	m.refresh()
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// title line, quick actions, input with its border
	vpHeight := height - 5
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4
	m.markdown.setWidth(width - 8)
	m.refresh()
}

// Close stops typing.
func (m *Model) Close() {
	m.typer.Stop()
}
