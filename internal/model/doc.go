// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat conversation and its messages.
//
// A Conversation always opens with the assistant's welcome message; Clear
// restores that state.
package model
