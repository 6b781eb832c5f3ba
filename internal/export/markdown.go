// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a readable transcript.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export renders conv as Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation, now time.Time) ([]byte, error) {
	if conv == nil {
		return nil, ErrNoConversation
	}

	var sb strings.Builder

	sb.WriteString("# Medical Consultation\n\n")
	fmt.Fprintf(&sb, "- **Exported**: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- **Messages**: %d\n\n", len(conv.Messages))
	sb.WriteString("---\n\n")

	for i, msg := range conv.Messages {
		fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", msg.Role.DisplayName(), msg.Timestamp.Format("15:04:05"))
		if msg.IsError {
			sb.WriteString("> ")
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(msg.Content), "\n", "\n> "))
		} else {
			sb.WriteString(strings.TrimSpace(msg.Content))
		}
		sb.WriteString("\n\n")

		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("---\n\n")
	sb.WriteString(analysis.Disclaimer)
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}
