// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/runtimecfg"
	"github.com/jeranaias/elia-tui/internal/storage"
)

// =============================================================================
// CHAT LIFECYCLE MESSAGES
// =============================================================================

// ChatPresentedMsg carries a newly launched chat to the UI.
type ChatPresentedMsg struct {
	Chat model.ChatData
}

// ChatOpenedMsg carries a stored chat loaded from the home screen.
type ChatOpenedMsg struct {
	Chat model.ChatData
}

// ChatsLoadedMsg carries the recent chat list.
type ChatsLoadedMsg struct {
	Chats []storage.ChatSummary
}

// MessageSentMsg reports that a follow-up user message was stored.
type MessageSentMsg struct {
	Chat model.ChatData
}

// TitleUpdatedMsg reports a new chat title, generated or user supplied.
type TitleUpdatedMsg struct {
	ChatID string
	Title  string
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals the start of a reply.
type StreamStartMsg struct {
	ChatID    string
	StartTime time.Time
}

// StreamTokenMsg carries a piece of the reply.
type StreamTokenMsg struct {
	ChatID  string
	Token   string
	IsFirst bool
}

// StreamCompleteMsg carries the chat with the stored reply appended.
type StreamCompleteMsg struct {
	Chat model.ChatData
}

// StreamErrorMsg reports a failed or cancelled reply. Nothing was stored.
type StreamErrorMsg struct {
	ChatID string
	Err    error
}

// =============================================================================
// CONFIGURATION AND ERROR MESSAGES
// =============================================================================

// ConfigChangedMsg carries a new runtime configuration snapshot.
type ConfigChangedMsg struct {
	Config runtimecfg.RuntimeConfig
}

// ErrorMsg reports a failure to show in the status line.
type ErrorMsg struct {
	Op  string
	Err error
}

func (e ErrorMsg) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e ErrorMsg) Unwrap() error {
	return e.Err
}
