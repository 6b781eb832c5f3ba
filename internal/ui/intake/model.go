// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intake

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/ui/components"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// Field identifies a focusable part of the form.
type Field int

const (
	FieldPrimary Field = iota
	FieldDescription
	FieldSeverity
	FieldDuration
	FieldSymptoms
	FieldClear
	FieldSubmit
	fieldCount
)

// MsgIncomplete is the toast raised when a required field is blank.
const MsgIncomplete = "Please fill in the required fields."

// SubmitMsg carries a validated form and the note composed from it.
type SubmitMsg struct {
	Intake analysis.Intake
	Note   string
}

// KeyMap defines the form key bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Enter  key.Binding
	Submit key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev field")),
		Left:   key.NewBinding(key.WithKeys("left")),
		Right:  key.NewBinding(key.WithKeys("right")),
		Up:     key.NewBinding(key.WithKeys("up")),
		Down:   key.NewBinding(key.WithKeys("down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Enter:  key.NewBinding(key.WithKeys("enter")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "analyze")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Submit}
}

// Model is the intake form.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	primary     textinput.Model
	description textarea.Model
	severity    int
	duration    int
	selected    []string

	focus      Field
	cursor     int
	scroll     int
	confirming bool
	busy       bool

	width  int
	height int
}

// New creates an empty form focused on the primary symptom.
func New(theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g., Severe headache, High fever, Chest pain, Memory loss..."
	ti.CharLimit = 200
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "When did they start? What triggers them? How do they feel? " +
		"Any patterns you've noticed? The more detail you provide, the more accurate the analysis will be."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.CharLimit = 4000

	m := Model{
		theme:       theme,
		keyMap:      DefaultKeyMap(),
		primary:     ti,
		description: ta,
		severity:    analysis.DefaultSeverity,
	}
	m.setFocus(FieldPrimary)
	return m
}

// KeyMap returns the form bindings.
func (m Model) KeyMap() KeyMap {
	return m.keyMap
}

// Intake returns the current form values.
func (m Model) Intake() analysis.Intake {
	return analysis.Intake{
		PrimarySymptom:     m.primary.Value(),
		Description:        m.description.Value(),
		Severity:           m.severity,
		Duration:           analysis.Durations[m.duration],
		AdditionalSymptoms: slices.Clone(m.selected),
	}
}

// Focused returns the focused field.
func (m Model) Focused() Field {
	return m.focus
}

// Confirming reports whether a clear is awaiting confirmation.
func (m Model) Confirming() bool {
	return m.confirming
}

// SetBusy disables submission while an analysis is running.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// SetSize sets the area available to the form.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := max(width-4, 20)
	m.primary.Width = w
	m.description.SetWidth(w)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys for the focused field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	if m.confirming {
		m.confirming = false
		if keyMsg.String() == "y" || keyMsg.String() == "Y" {
			m.Clear()
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Submit):
		return m.Submit()
	case key.Matches(keyMsg, m.keyMap.Next):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case key.Matches(keyMsg, m.keyMap.Prev):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case FieldPrimary:
		if key.Matches(keyMsg, m.keyMap.Enter) {
			m.setFocus(FieldDescription)
			return m, nil
		}
	case FieldSeverity:
		switch {
		case key.Matches(keyMsg, m.keyMap.Left):
			m.severity = max(m.severity-1, analysis.MinSeverity)
		case key.Matches(keyMsg, m.keyMap.Right):
			m.severity = min(m.severity+1, analysis.MaxSeverity)
		case key.Matches(keyMsg, m.keyMap.Enter):
			m.setFocus(FieldDuration)
		}
		return m, nil
	case FieldDuration:
		n := len(analysis.Durations)
		switch {
		case key.Matches(keyMsg, m.keyMap.Left):
			m.duration = (m.duration + n - 1) % n
		case key.Matches(keyMsg, m.keyMap.Right):
			m.duration = (m.duration + 1) % n
		case key.Matches(keyMsg, m.keyMap.Enter):
			m.setFocus(FieldSymptoms)
		}
		return m, nil
	case FieldSymptoms:
		m.moveCursor(keyMsg)
		return m, nil
	case FieldClear:
		if key.Matches(keyMsg, m.keyMap.Enter) {
			m.confirming = true
		}
		return m, nil
	case FieldSubmit:
		if key.Matches(keyMsg, m.keyMap.Enter) {
			return m.Submit()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldPrimary:
		m.primary, cmd = m.primary.Update(msg)
	case FieldDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *Model) moveCursor(msg tea.KeyMsg) {
	cols := m.columns()
	n := len(analysis.CommonSymptoms)
	switch {
	case key.Matches(msg, m.keyMap.Left):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keyMap.Right):
		m.cursor = min(m.cursor+1, n-1)
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor >= cols {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case key.Matches(msg, m.keyMap.Toggle), key.Matches(msg, m.keyMap.Enter):
		m.Toggle(analysis.CommonSymptoms[m.cursor])
	}

	row := m.cursor / cols
	switch {
	case row < m.scroll:
		m.scroll = row
	case row >= m.scroll+checklistRows:
		m.scroll = row - checklistRows + 1
	}
}

// Toggle adds or removes an additional symptom. Selection order is kept.
func (m *Model) Toggle(symptom string) {
	if i := slices.Index(m.selected, symptom); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return
	}
	m.selected = append(m.selected, symptom)
}

// SetPrimary replaces the primary symptom text.
func (m *Model) SetPrimary(s string) {
	m.primary.SetValue(s)
}

// SetDescription replaces the description text.
func (m *Model) SetDescription(s string) {
	m.description.SetValue(s)
}

// SetSeverity sets the severity, clamped to the 1-10 scale.
func (m *Model) SetSeverity(n int) {
	m.severity = min(max(n, analysis.MinSeverity), analysis.MaxSeverity)
}

// SetDuration selects d; unknown durations select nothing.
func (m *Model) SetDuration(d analysis.Duration) {
	m.duration = max(slices.Index(analysis.Durations, d), 0)
}

// Submit validates the form. A valid form yields a SubmitMsg; an incomplete
// one an error toast. Nothing happens while busy.
func (m Model) Submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	in := m.Intake()
	if err := in.Validate(); err != nil {
		return m, components.ShowToast(components.ToastError, MsgIncomplete)
	}
	in.PrimarySymptom = strings.TrimSpace(in.PrimarySymptom)
	in.Description = strings.TrimSpace(in.Description)
	note := analysis.BuildNote(in)
	return m, func() tea.Msg { return SubmitMsg{Intake: in, Note: note} }
}

// Clear resets every field to its default.
func (m *Model) Clear() {
	m.primary.Reset()
	m.description.Reset()
	m.severity = analysis.DefaultSeverity
	m.duration = 0
	m.selected = nil
	m.cursor = 0
	m.scroll = 0
	m.confirming = false
	m.setFocus(FieldPrimary)
}

func (m *Model) setFocus(f Field) {
	m.focus = f
	m.primary.Blur()
	m.description.Blur()
	switch f {
	case FieldPrimary:
		m.primary.Focus()
	case FieldDescription:
		m.description.Focus()
	}
}
