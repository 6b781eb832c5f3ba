// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/session"
	"github.com/jeranaias/triage-tui/internal/storage"
	"github.com/jeranaias/triage-tui/internal/ui/chat"
	"github.com/jeranaias/triage-tui/internal/ui/components"
	"github.com/jeranaias/triage-tui/internal/ui/intake"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
}

func (f fakeAnalyzer) Analyze(context.Context, string) (*analysis.Result, error) {
	return f.result, f.err
}

var sampleResult = &analysis.Result{
	SessionID:         "s-1",
	PossibleDiagnoses: []string{"Migraine"},
	Explanation:       "Rest and fluids.",
}

func newApp(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Analyzer == nil {
		opts.Analyzer = fakeAnalyzer{result: sampleResult}
	}
	opts.ExportDir = t.TempDir()
	m := New(styles.NewTheme(styles.ModeDark), opts)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func toastMessages(m *Model) []string {
	var out []string
	for _, t := range m.Toasts() {
		out = append(out, t.Message)
	}
	return out
}

func TestTabs(t *testing.T) {
	m := newApp(t, Options{})
	assert.Equal(t, TabChat, m.Tab())

	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	assert.Equal(t, TabSymptoms, m.Tab())
	assert.Contains(t, m.View(), "Comprehensive Symptom Assessment")
	assert.Contains(t, m.View(), "AI Medical Analysis")

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, TabChat, m.Tab())
	assert.Contains(t, m.View(), "Dr. AI Assistant")
}

func TestSubmit_CompletesAndToasts(t *testing.T) {
	m := newApp(t, Options{})
	m.SetTab(TabSymptoms)

	_, cmd := m.Update(intake.SubmitMsg{Note: "headache"})
	require.NotNil(t, cmd)
	assert.Equal(t, session.StateAnalyzing, m.Controller().State())

	_, cmd = m.Update(intake.SubmitMsg{Note: "again"})
	assert.Nil(t, cmd, "one analysis at a time")

	m.Update(session.ResultMsg{Request: m.Controller().Request(), Result: sampleResult})
	assert.Equal(t, session.StateComplete, m.Controller().State())
	assert.Contains(t, toastMessages(m), ToastAnalysisDone)
	assert.Equal(t, "headache", m.lastNote)
}

func TestSymptoms_PanelTracksController(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	assert.Contains(t, m.View(), "Enter your symptoms above")

	m.Update(intake.SubmitMsg{Note: "headache"})
	m.Update(session.ResultMsg{Request: m.Controller().Request(), Result: sampleResult})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.Controller().Settled())
	assert.Contains(t, m.View(), "Rest and fluids.")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.NotContains(t, m.View(), "Rest and fluids.")
	assert.Contains(t, m.View(), "Enter your symptoms above")
}

type ctxAnalyzer struct{}

func (ctxAnalyzer) Analyze(ctx context.Context, _ string) (*analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sampleResult, nil
}

func TestClose_AbandonsChatRequests(t *testing.T) {
	m := newApp(t, Options{Analyzer: ctxAnalyzer{}})
	m.Close()

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Send("fever")
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var reply *chat.ReplyMsg
	for _, c := range batch {
		if c == nil {
			continue
		}
		if r, ok := c().(chat.ReplyMsg); ok {
			reply = &r
		}
	}
	require.NotNil(t, reply)
	assert.ErrorIs(t, reply.Err, context.Canceled)
}

func TestSubmit_FailureToasts(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(intake.SubmitMsg{Note: "headache"})

	m.Update(session.ResultMsg{Request: m.Controller().Request(), Err: errors.New("refused")})
	assert.Equal(t, session.StateError, m.Controller().State())
	assert.Equal(t, []string{ToastAnalysisFailed}, toastMessages(m))
}

func TestStaleResultIgnored(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(intake.SubmitMsg{Note: "headache"})
	req := m.Controller().Request()

	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, session.StateIdle, m.Controller().State())

	m.Update(session.ResultMsg{Request: req, Result: sampleResult})
	assert.Equal(t, session.StateIdle, m.Controller().State())
	assert.Empty(t, toastMessages(m))
}

func TestRecord_WritesHistory(t *testing.T) {
	h, err := storage.Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	m := newApp(t, Options{History: h})
	msg := m.record("fever", sampleResult)()

	saved, ok := msg.(HistorySavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.Positive(t, saved.ID)

	n, err := h.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecord_DisabledWithoutHistory(t *testing.T) {
	m := newApp(t, Options{})
	assert.Nil(t, m.record("fever", sampleResult))
}

func TestIdle_WarnsThenResets(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(intake.SubmitMsg{Note: "headache"})
	m.Update(session.ResultMsg{Request: m.Controller().Request(), Result: sampleResult})

	m.Update(session.IdleWarningMsg{Remaining: 30 * time.Second})
	assert.Contains(t, m.View(), "Are you still there?")

	m.Update(session.IdleMsg{})
	assert.Equal(t, session.StateIdle, m.Controller().State())
	assert.Contains(t, toastMessages(m), ToastIdleReset)
	assert.NotContains(t, m.View(), "Are you still there?")
}

func TestIdle_KeyDismissesWarning(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(session.IdleWarningMsg{Remaining: 30 * time.Second})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.NotContains(t, m.View(), "Are you still there?")
	assert.Equal(t, TabChat, m.Tab())
}

func TestReload_AppliesAndToasts(t *testing.T) {
	m := newApp(t, Options{})

	cfg := config.Default()
	cfg.UI.Markdown = false
	cfg.UI.Theme = styles.ModeLight
	cfg.Reveal.ChatInterval = config.D(5 * time.Millisecond)
	m.Update(ReloadMsg{Reload: config.Reload{Config: cfg}})
	assert.Same(t, cfg, m.cfg)
	assert.Contains(t, toastMessages(m), ToastConfigReloaded)
	assert.Equal(t, styles.ModeLight, m.theme.Mode)
	assert.False(t, m.theme.IsDark)

	m.Update(ReloadMsg{Reload: config.Reload{Err: errors.New("bad toml")}})
	assert.Contains(t, toastMessages(m), "Config reload failed: bad toml")
	assert.Same(t, cfg, m.cfg)
}

func TestReload_WaitsOnChannel(t *testing.T) {
	ch := make(chan config.Reload, 1)
	m := newApp(t, Options{Reloads: ch})

	cfg := config.Default()
	ch <- config.Reload{Config: cfg}
	msg := m.waitReload()()
	assert.Equal(t, ReloadMsg{Reload: config.Reload{Config: cfg}}, msg)

	close(ch)
	assert.Nil(t, m.waitReload()())
}

func TestToasts_ShowAndExpire(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(components.ShowToastMsg{Kind: components.ToastInfo, Message: "hello"})
	assert.Equal(t, []string{"hello"}, toastMessages(m))
	assert.Contains(t, m.View(), "hello")

	_, cmd := m.Update(components.ToastTickMsg{Time: time.Now().Add(components.ToastDuration + time.Second)})
	assert.NotNil(t, cmd)
	assert.Empty(t, toastMessages(m))
}

func TestEmergencyModal(t *testing.T) {
	m := newApp(t, Options{})
	m.SetTab(TabSymptoms)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}, Alt: true})
	assert.Contains(t, m.View(), "911")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "Poison Control")
	assert.Equal(t, TabSymptoms, m.Tab())
}

func TestExportDone_Toasts(t *testing.T) {
	m := newApp(t, Options{})
	m.Update(chat.ExportDoneMsg{Path: "/tmp/x.json"})
	assert.Contains(t, toastMessages(m), "Consultation exported to /tmp/x.json")

	m.Update(chat.ExportDoneMsg{Err: errors.New("disk full")})
	assert.Contains(t, toastMessages(m), "Export failed: disk full")
}
