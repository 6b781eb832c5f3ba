// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Medical AI"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat bubble.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// IsError marks the apology shown when a request failed.
	IsError bool `json:"is_error,omitempty"`

	// Result is the structured analysis the content was formatted from.
	Result *analysis.Result `json:"result,omitempty"`
}

// NewMessage creates a message with a fresh id.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Preview returns the first line of the content, cut to maxLen runes.
func (m *Message) Preview(maxLen int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(m.Content), "\n")
	r := []rune(line)
	if maxLen > 0 && len(r) > maxLen {
		return string(r[:maxLen]) + "…"
	}
	return line
}

// IsEmpty reports whether the message has no visible content.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
