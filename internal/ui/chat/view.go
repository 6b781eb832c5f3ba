// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat view.
func (m Model) View() string {
	title := m.theme.PanelTitle.Render("Dr. AI Assistant") + "  " + m.statusLine()

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		m.quickActionsView(),
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
	)
}

func (m Model) statusLine() string {
	switch m.phase {
	case PhaseThinking, PhaseTyping:
		return m.theme.ThinkingText.Render(m.Status())
	default:
		return m.theme.StatusComplete.Render("● " + m.Status())
	}
}

func (m Model) quickActionsView() string {
	parts := make([]string, 0, len(QuickActions)+1)
	for i, qa := range QuickActions {
		parts = append(parts, m.theme.QuickActionKey.Render("A-"+string(rune('1'+i)))+" "+m.theme.QuickAction.Render(qa.Label))
	}
	parts = append(parts, m.theme.StatusError.Render("A-e Emergency"))
	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

// refresh rebuilds the viewport content.
func (m *Model) refresh() {
	var sb strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}

	switch m.phase {
	case PhaseThinking:
		sb.WriteString("\n")
		sb.WriteString(m.theme.AssistantBubble.Render(
			m.spinner.View() + " " + m.theme.ThinkingText.Render("Analyzing your symptoms...")))
	case PhaseTyping:
		sb.WriteString("\n")
		sb.WriteString(m.renderBubble(model.RoleAssistant,
			m.Typed()+m.theme.TypingCursor.Render("▌"), "", false))
	}

	m.viewport.SetContent(sb.String())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderMessage(msg *model.Message) string {
	content := msg.Content
	if msg.Role == model.RoleAssistant && !msg.IsError {
		content = m.markdown.render(msg.ID, content)
	}
	return m.renderBubble(msg.Role, content, msg.Timestamp.Format("15:04"), msg.IsError)
}

func (m Model) renderBubble(role model.Role, content, stamp string, isError bool) string {
	label := m.theme.RoleLabel.Render(role.DisplayName())
	if stamp != "" {
		label += " " + m.theme.Timestamp.Render(stamp)
	}

	width := m.width*7/10 + 4
	if width < 24 {
		width = 24
	}

	style := m.theme.AssistantBubble
	switch {
	case isError:
		style = m.theme.ErrorBubble
	case role == model.RoleUser:
		style = m.theme.UserBubble
	}
	bubble := style.MaxWidth(width).Render(lipgloss.NewStyle().Width(width - 4).Render(strings.TrimRight(content, "\n")))

	block := lipgloss.JoinVertical(lipgloss.Left, label, bubble)
	if role == model.RoleUser && m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}
	return block
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownCache renders finished replies once per width.
type markdownCache struct {
	enabled  bool
	style    string
	width    int
	renderer *glamour.TermRenderer
	rendered map[string]string
}

func newMarkdownCache(enabled bool, style string) *markdownCache {
	return &markdownCache{
		enabled:  enabled,
		style:    style,
		width:    72,
		rendered: make(map[string]string),
	}
}

func (c *markdownCache) setEnabled(on bool) {
	if c.enabled != on {
		c.enabled = on
		c.clear()
	}
}

func (c *markdownCache) setStyle(style string) {
	if style != c.style {
		c.style = style
		c.renderer = nil
		c.clear()
	}
}

func (c *markdownCache) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	if w != c.width {
		c.width = w
		c.renderer = nil
		c.clear()
	}
}

func (c *markdownCache) clear() {
	c.rendered = make(map[string]string)
}

// render returns content as terminal markdown, or content unchanged when
// rendering is off or fails.
func (c *markdownCache) render(id, content string) string {
	if !c.enabled {
		return content
	}
	if out, ok := c.rendered[id]; ok {
		return out
	}
	if c.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(c.style),
			glamour.WithWordWrap(c.width),
		)
		if err != nil {
			c.enabled = false
			return content
		}
		c.renderer = r
	}
	out, err := c.renderer.Render(content)
	if err != nil {
		return content
	}
	out = strings.Trim(out, "\n")
	c.rendered[id] = out
	return out
}
