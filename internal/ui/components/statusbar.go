// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar shows key hints on the left and a status on the right.
type StatusBar struct {
	Shortcuts []Shortcut
	Status    string
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar. Shortcuts that do not fit are dropped from the end.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	status := s.theme.ShortcutDesc.Render(s.Status)
	budget := inner - lipgloss.Width(status) - 1

	var hints []string
	used := 0
	for _, sc := range s.Shortcuts {
		h := s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
		w := lipgloss.Width(h)
		if used > 0 {
			w += 2
		}
		if used+w > budget {
			break
		}
		hints = append(hints, h)
		used += w
	}
	left := strings.Join(hints, "  ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + status)
}
