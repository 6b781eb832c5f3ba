// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the triage TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals. The Theme detects the terminal background with termenv unless the
configured theme forces "dark" or "light".

# Color System (colors.go)

  - Teal: brand, headers, the active tab
  - Blue: user messages, info toasts
  - Violet: assistant messages, section headings
  - Emerald: completed analyses, success toasts
  - Amber: analyzing state, warnings
  - Rose: errors, the emergency modal

Every status rendering pairs the color with an ASCII indicator ([OK], [X],
[!], [i]) so states remain distinguishable without color.

# Theme (theme.go)

	theme := styles.NewTheme("auto")
	theme.SetSize(msg.Width, msg.Height)
	header := theme.Header.Render("Medical AI Assistant")
*/
package styles
