// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/ui/styles"
)

// =============================================================================
// IDLE WARNING OVERLAY
// =============================================================================

// IdleOverlay warns that an idle session is about to be reset.
type IdleOverlay struct {
	visible   bool
	remaining time.Duration
	width     int
	height    int
	theme     *styles.Theme
}

// NewIdleOverlay creates a hidden overlay.
func NewIdleOverlay(theme *styles.Theme) IdleOverlay {
	return IdleOverlay{theme: theme}
}

// SetSize sets the overlay dimensions.
func (o *IdleOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Show displays the overlay with the time left before the reset.
func (o *IdleOverlay) Show(remaining time.Duration) {
	o.visible = true
	o.remaining = remaining
}

// Hide hides the overlay.
func (o *IdleOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is currently visible.
func (o IdleOverlay) IsVisible() bool {
	return o.visible
}

// View renders the overlay centered, or "" when hidden.
func (o IdleOverlay) View() string {
	if !o.visible {
		return ""
	}

	width, height := o.width, o.height
	if width == 0 {
		width = 60
	}
	if height == 0 {
		height = 24
	}
	maxWidth := width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}

	amber := lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	center := lipgloss.NewStyle().Width(maxWidth - 8).Align(lipgloss.Center)

	content := lipgloss.JoinVertical(lipgloss.Center,
		amber.Render(styles.StatusIndicators.Warning+" Are you still there?"),
		"",
		center.Render("The current analysis will be cleared in "+amber.Render(formatRemaining(o.remaining))),
		"",
		center.Foreground(styles.TextSecondary).Italic(true).Render("Press any key to keep working"),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// formatRemaining formats a duration as M:SS.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
