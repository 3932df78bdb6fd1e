// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ChatMessage is a single message. It is never modified after creation.
type ChatMessage struct {
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Model     ModelConfig `json:"model"`
}

// NewChatMessage creates a message stamped with the current UTC time.
func NewChatMessage(role Role, content string, m ModelConfig) ChatMessage {
	return ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Model:     m,
	}
}

// =============================================================================
// CHAT TYPE
// =============================================================================

// ChatData is a chat and its ordered messages.
//
// ID, Title and CreateTimestamp are zero until the chat has been persisted;
// Title may stay empty until a title is generated or the user names the chat.
type ChatData struct {
	ID              string        `json:"id,omitempty"`
	Title           string        `json:"title,omitempty"`
	CreateTimestamp time.Time     `json:"create_timestamp,omitempty"`
	Model           ModelConfig   `json:"model"`
	Messages        []ChatMessage `json:"messages"`
}

// Persisted reports whether the chat has been assigned an identity.
func (c ChatData) Persisted() bool {
	return c.ID != ""
}

// FirstUserMessage returns the first user message, if any.
func (c ChatData) FirstUserMessage() (ChatMessage, bool) {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return ChatMessage{}, false
}

// WithMessage returns a copy of c with msg appended. The receiver's slice is
// never shared with the result.
func (c ChatData) WithMessage(msg ChatMessage) ChatData {
	msgs := make([]ChatMessage, len(c.Messages), len(c.Messages)+1)
	copy(msgs, c.Messages)
	c.Messages = append(msgs, msg)
	return c
}
