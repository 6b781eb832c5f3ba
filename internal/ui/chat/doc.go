// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view of the triage TUI.

A message goes through three phases:

  - Thinking: the user's message is appended and the note is sent to the
    analysis service.
  - Typing: the formatted reply is revealed one character per tick by a
    reveal.Scheduler running at the chat interval.
  - Ready: the full reply is appended to the conversation.

Input is ignored while thinking or typing. A failed request appends an
apology without typing it. Clearing the chat cancels typing, drops any
in-flight request and restores the welcome message.

# Key Bindings

	Enter        send the message
	Esc          finish typing immediately
	Alt+1..4     quick actions
	Alt+E        emergency information
	Ctrl+L       clear the chat
	Ctrl+E       export the consultation as JSON
	Ctrl+T       export the consultation as Markdown
	PgUp/PgDn    scroll
*/
package chat
