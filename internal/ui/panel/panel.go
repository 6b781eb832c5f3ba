// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/reveal"
	"github.com/jeranaias/triage-tui/internal/session"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// Fixed copy shown by the panel.
const (
	Title       = "AI Medical Analysis"
	Subtitle    = "Database-powered diagnosis suggestions"
	Placeholder = "Enter your symptoms above to receive AI-powered medical analysis from our comprehensive database."
	NoDetails   = "The analysis returned no details."

	HeadingSession     = "📋 Session ID"
	HeadingDiagnoses   = "🩺 Possible Diagnoses"
	HeadingExplanation = "📖 Medical Explanation"
	HeadingExamination = "🔍 Recommended Medical Examination"
)

// headerLines is the height of the title block above the viewport.
const headerLines = 4

// Model draws a session.Controller. The controller is shared with the
// owner, which routes fetch results and ticks to it.
type Model struct {
	theme   *styles.Theme
	ctrl    *session.Controller
	spinner spinner.Model
	view    viewport.Model
	width   int
	height  int

	// follow keeps the newest revealed text in view until the user scrolls.
	follow  bool
	request uint64
}

// New creates a panel for ctrl.
func New(theme *styles.Theme, ctrl *session.Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.StatusAnalyzing

	return Model{
		theme:   theme,
		ctrl:    ctrl,
		spinner: sp,
		view:    viewport.New(60, 10),
		follow:  true,
	}
}

// Controller returns the controller being drawn.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// SetSize sets the outer panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.view.Width = max(width-4, 10)
	m.view.Height = max(height-headerLines-2, 3)
	m.Refresh()
}

// Refresh re-renders the body into the viewport. The owner calls it after
// anything that may have moved the controller.
func (m *Model) Refresh() {
	if req := m.ctrl.Request(); req != m.request {
		m.request = req
		m.follow = true
		m.view.GotoTop()
	}

	m.view.SetContent(Body(m.theme, m.ctrl, m.bodyWidth()))
	if revealing, _ := m.ctrl.Live(); revealing && m.follow {
		m.view.GotoBottom()
	}
}

func (m Model) bodyWidth() int {
	return max(m.width-4, 20)
}

// YOffset reports how far the body is scrolled.
func (m Model) YOffset() int {
	return m.view.YOffset
}

// ApplyTheme re-reads the styles copied out of the theme after it changed
// mode.
func (m *Model) ApplyTheme() {
	m.spinner.Style = m.theme.StatusAnalyzing
	m.Refresh()
}

// StartSpinner returns the first spinner tick for a new request.
func (m Model) StartSpinner() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the spinner while analyzing and scrolls the body.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.ctrl.State() != session.StateAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.Refresh()
		switch msg.String() {
		case "pgup":
			m.view.HalfViewUp()
			m.follow = false
		case "pgdown":
			m.view.HalfViewDown()
			m.follow = m.view.AtBottom()
		}
	}
	return m, nil
}

// View renders the panel. The body is whatever the last Refresh stored.
func (m Model) View() string {
	head := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelTitle.Render(Title),
		m.theme.FormHint.Render(Subtitle),
		m.statusLine(),
		"",
	)

	style := m.theme.Panel
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, head, m.view.View()))
}

func (m Model) statusLine() string {
	t := m.theme
	switch m.ctrl.State() {
	case session.StateAnalyzing:
		return m.spinner.View() + " " + t.StatusAnalyzing.Render(m.ctrl.StatusText())
	case session.StateComplete:
		line := t.StatusComplete.Render("● " + m.ctrl.StatusText())
		return line + "  " + t.Accuracy.Render(fmt.Sprintf("Accuracy: %d%%", m.ctrl.Accuracy()))
	case session.StateError:
		return t.StatusError.Render("● " + m.ctrl.StatusText())
	default:
		return t.StatusIdle.Render("○ " + m.ctrl.StatusText())
	}
}

// Body renders the panel content below the status line for the
// controller's current state.
func Body(theme *styles.Theme, ctrl *session.Controller, width int) string {
	switch ctrl.State() {
	case session.StateAnalyzing:
		return ""
	case session.StateError:
		msg := "Please check your connection and try again."
		if err := ctrl.Err(); err != nil {
			msg = err.Error() + "\n" + msg
		}
		return theme.StatusError.Width(width).Render(msg)
	case session.StateComplete:
		st := ctrl.Reveal()
		if st.IsEmpty() && ctrl.Settled() {
			return theme.Placeholder.Width(width).Render(NoDetails)
		}
		return Sections(theme, st, width)
	default:
		return theme.Placeholder.Width(width).Render(Placeholder)
	}
}

// Sections renders the revealed part of a result. A section is drawn once
// any of its text has been revealed.
func Sections(theme *styles.Theme, st reveal.State, width int) string {
	body := theme.SectionBody.Width(width)
	var blocks []string

	if st.SessionID != "" {
		blocks = append(blocks, section(theme, HeadingSession, body.Render(st.SessionID)))
	}

	if len(st.Diagnoses) > 0 {
		lines := make([]string, len(st.Diagnoses))
		for i, d := range st.Diagnoses {
			num := theme.ListNumber.Render(fmt.Sprintf("%d.", i+1))
			lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, num+" ", body.Width(max(width-4, 10)).Render(d))
		}
		blocks = append(blocks, section(theme, HeadingDiagnoses, strings.Join(lines, "\n")))
	}

	if st.Explanation != "" {
		blocks = append(blocks, section(theme, HeadingExplanation, body.Render(st.Explanation)))
	}

	if st.ExamName != "" || st.ExamType != "" {
		var lines []string
		if st.ExamName != "" {
			lines = append(lines, theme.FieldName.Render("Examination: ")+st.ExamName)
		}
		if st.ExamType != "" {
			lines = append(lines, theme.FieldName.Render("Type: ")+st.ExamType)
		}
		blocks = append(blocks, section(theme, HeadingExamination, body.Render(strings.Join(lines, "\n"))))
	}

	return strings.Join(blocks, "\n\n")
}

func section(theme *styles.Theme, heading, content string) string {
	return theme.SectionHeading.Render(heading) + "\n" + content
}
