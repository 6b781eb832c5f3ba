// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/ui/styles"
	"github.com/jeranaias/triage-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar with the tab strip.
type Header struct {
	Title    string
	Subtitle string
	Tabs     []string
	Active   int
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the given tabs.
func NewHeader(theme *styles.Theme, tabs ...string) *Header {
	return &Header{
		Title:    "MEDISOFT AI",
		Subtitle: "AI Medical Assistant",
		Tabs:     tabs,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetActive selects the tab at i; out of range values are ignored.
func (h *Header) SetActive(i int) {
	if i >= 0 && i < len(h.Tabs) {
		h.Active = i
	}
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - 6

	tabs := make([]string, 0, len(h.Tabs))
	for i, name := range h.Tabs {
		label := tabKey(i) + " " + name
		if i == h.Active {
			tabs = append(tabs, h.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, h.theme.Tab.Render(label))
		}
	}
	tabStrip := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	title := h.theme.HeaderTitle.Render(util.Truncate(h.Title, inner/3))
	subtitle := h.theme.HeaderSubtitle.Render(h.Subtitle)

	gap := inner - lipgloss.Width(title) - lipgloss.Width(tabStrip) - lipgloss.Width(subtitle)
	var line string
	if gap >= 2 {
		left := gap / 2
		line = title + strings.Repeat(" ", left) + tabStrip + strings.Repeat(" ", gap-left) + subtitle
	} else {
		// Narrow terminals drop the subtitle first.
		line = lipgloss.NewStyle().MaxWidth(inner).Render(title + "  " + tabStrip)
	}

	return h.theme.Header.Width(width - 2).Render(line)
}

func tabKey(i int) string {
	return "F" + string(rune('1'+i))
}
