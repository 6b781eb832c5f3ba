// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat view.
type KeyMap struct {
	Submit         key.Binding
	Skip           key.Binding
	Clear          key.Binding
	Export         key.Binding
	ExportMarkdown key.Binding
	Emergency      key.Binding
	QuickActions   []key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	quick := make([]key.Binding, len(QuickActions))
	for i, qa := range QuickActions {
		k := "alt+" + string(rune('1'+i))
		quick[i] = key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, qa.Label),
		)
	}

	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Skip: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip typing"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		ExportMarkdown: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "export md"),
		),
		Emergency: key.NewBinding(
			key.WithKeys("alt+e"),
			key.WithHelp("A-e", "emergency"),
		),
		QuickActions: quick,
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Skip, k.Clear, k.Export, k.Emergency}
}

// =============================================================================
// QUICK ACTIONS
// =============================================================================

// QuickAction is a preset symptom prompt.
type QuickAction struct {
	Label  string
	Prompt string
}

// QuickActions are offered below the chat log.
var QuickActions = []QuickAction{
	{"Headache", "I have a severe headache with nausea and sensitivity to light"},
	{"Fatigue & Memory", "I'm experiencing extreme fatigue, memory problems, and difficulty concentrating"},
	{"Fever", "I have a high fever with chills, body aches, and weakness"},
	{"Chest Pain", "I have chest pain, shortness of breath, and dizziness"},
}
