// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/session"
	"github.com/jeranaias/triage-tui/internal/ui/components"
	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.Width = width
	m.emergency.SetSize(width, height)
	m.idle.SetSize(width, height)

	body := m.bodyHeight()
	m.chat.SetSize(width, body)

	if m.sideBySide() {
		half := width / 2
		m.form.SetSize(half, body)
		m.panel.SetSize(width-half, body)
	} else {
		m.form.SetSize(width, body)
		m.panel.SetSize(width, body)
	}
}

func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.header.View()) - 1
	return max(h, 5)
}

func (m *Model) sideBySide() bool {
	return m.theme.GetLayoutMode() == styles.LayoutWide
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if m.idle.IsVisible() {
		return m.idle.View()
	}
	if m.emergency.IsVisible() {
		return m.emergency.View()
	}

	var body string
	if m.tab == TabChat {
		body = m.chat.View()
	} else {
		body = m.symptomsView()
	}

	toasts := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width)
	bodyH := m.bodyHeight()
	if toasts != "" {
		bodyH -= lipgloss.Height(toasts)
	}
	body = lipgloss.NewStyle().MaxHeight(max(bodyH, 1)).Render(body)

	parts := []string{m.header.View(), body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.statusBarView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// symptomsView shows the form and the panel side by side when there is room.
// Narrow terminals show the panel in place of the form while an analysis is
// on screen.
func (m *Model) symptomsView() string {
	if m.sideBySide() {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.width/2).Render(m.form.View()),
			m.panel.View(),
		)
	}
	if m.ctrl.State() == session.StateIdle {
		return m.form.View()
	}
	return m.panel.View()
}

func (m *Model) statusBarView() string {
	var bindings []key.Binding
	if m.tab == TabChat {
		bindings = m.chat.KeyMap().ShortHelp()
		m.statusBar.Status = m.chat.Status()
	} else {
		bindings = append(m.form.KeyMap().ShortHelp(), m.keyMap.Skip, m.keyMap.Reset, m.keyMap.Emergency)
		m.statusBar.Status = m.ctrl.StatusText()
	}
	bindings = append(bindings, m.keyMap.Chat, m.keyMap.Symptoms, m.keyMap.Quit)

	shortcuts := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		shortcuts = append(shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	m.statusBar.Shortcuts = shortcuts
	return m.statusBar.View()
}
