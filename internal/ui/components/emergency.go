// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// EMERGENCY MODAL
// =============================================================================

// EmergencyContact is one line of the emergency modal.
type EmergencyContact struct {
	Label  string
	Number string
}

// EmergencyContacts are listed in the modal in order.
var EmergencyContacts = []EmergencyContact{
	{"Emergency Services", "911"},
	{"Poison Control", "1-800-222-1222"},
	{"Crisis Text Line", "Text HOME to 741741"},
	{"National Suicide Prevention", "988"},
}

// ShowEmergencyMsg asks the app to open the emergency modal.
type ShowEmergencyMsg struct{}

// ShowEmergency returns a command emitting ShowEmergencyMsg.
func ShowEmergency() tea.Cmd {
	return func() tea.Msg { return ShowEmergencyMsg{} }
}

// EmergencyModal shows emergency numbers over the rest of the UI.
type EmergencyModal struct {
	visible bool
	width   int
	height  int
	theme   *styles.Theme
}

// NewEmergencyModal creates a hidden modal.
func NewEmergencyModal(theme *styles.Theme) EmergencyModal {
	return EmergencyModal{theme: theme}
}

// Show opens the modal.
func (m *EmergencyModal) Show() { m.visible = true }

// Hide closes the modal.
func (m *EmergencyModal) Hide() { m.visible = false }

// IsVisible reports whether the modal is open.
func (m EmergencyModal) IsVisible() bool { return m.visible }

// SetSize sets the area the modal is centered in.
func (m *EmergencyModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update closes the modal on esc, enter or q while it is visible.
func (m EmergencyModal) Update(msg tea.Msg) (EmergencyModal, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "esc", "enter", "q":
			m.Hide()
		}
	}
	return m, nil
}

// View renders the modal centered, or "" when hidden.
func (m EmergencyModal) View() string {
	if !m.visible {
		return ""
	}

	width, height := m.width, m.height
	if width == 0 {
		width = 70
	}
	if height == 0 {
		height = 24
	}
	boxWidth := width - 8
	if boxWidth > 64 {
		boxWidth = 64
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	label := lipgloss.NewStyle().Bold(true)
	var contacts []string
	for _, c := range EmergencyContacts {
		contacts = append(contacts, label.Render(c.Label+":")+" "+c.Number)
	}

	body := lipgloss.NewStyle().Width(boxWidth - 8)
	parts := []string{
		m.theme.ModalTitle.Render(styles.StatusIndicators.Warning + " Emergency Information"),
		"",
		body.Bold(true).Render("If this is a life-threatening emergency, call 911 immediately!"),
		"",
		strings.Join(contacts, "\n"),
		"",
		body.Foreground(styles.TextSecondary).Render(
			"For non-emergency urgent care, consider visiting your nearest urgent care center " +
				"or contacting your primary care physician."),
		"",
		m.theme.FormHint.Render("esc close"),
	}

	box := m.theme.Modal.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
