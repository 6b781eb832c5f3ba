// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

// MaxMessages bounds the history; the oldest messages after the welcome are
// dropped first.
const MaxMessages = 500

// WelcomeMessage opens every conversation.
const WelcomeMessage = "Hello! I'm your AI medical assistant powered by a comprehensive medical database. " +
	"I can analyze your symptoms and provide evidence-based medical insights. " +
	"Please describe your symptoms in detail for the most accurate analysis. How can I help you today?"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the chat history.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates a conversation holding only the welcome message.
func NewConversation() *Conversation {
	now := time.Now()
	c := &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Messages = []*Message{NewMessage(RoleAssistant, WelcomeMessage)}
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Add appends msg and prunes the oldest history beyond MaxMessages.
func (c *Conversation) Add(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()

	if over := len(c.Messages) - MaxMessages; over > 0 {
		kept := append([]*Message{c.Messages[0]}, c.Messages[1+over:]...)
		c.Messages = kept
	}
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) *Message {
	msg := NewMessage(RoleUser, content)
	c.Add(msg)
	return msg
}

// AddReply appends the assistant's formatted reply to res.
func (c *Conversation) AddReply(content string, res *analysis.Result) *Message {
	msg := NewMessage(RoleAssistant, content)
	if res != nil {
		r := res.Clone()
		msg.Result = &r
	}
	c.Add(msg)
	return msg
}

// AddError appends an assistant apology for a failed request.
func (c *Conversation) AddError(content string) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.IsError = true
	c.Add(msg)
	return msg
}

// Clear drops the history and restores the welcome message.
func (c *Conversation) Clear() {
	c.Messages = []*Message{NewMessage(RoleAssistant, WelcomeMessage)}
	c.UpdatedAt = time.Now()
}

// Last returns the most recent message.
func (c *Conversation) Last() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUser returns the most recent user message, or nil.
func (c *Conversation) LastUser() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// HasUserMessages reports whether anything beyond the welcome was said.
func (c *Conversation) HasUserMessages() bool {
	return c.LastUser() != nil
}
