// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/elia-tui/internal/model"
)

// =============================================================================
// CHAT STORE CONTRACT
// =============================================================================

// ChatStore persists chats and their messages.
//
// Every failure caused by the storage engine matches apperr.ErrPersistence.
// A call whose context is cancelled leaves no partial state behind.
type ChatStore interface {
	// CreateChat durably records chat (which must not have an ID yet) with all
	// of its messages and returns the new identity.
	CreateChat(ctx context.Context, chat model.ChatData) (string, error)

	// AppendMessage appends msg to the chat. Unknown chats are apperr.ErrNotFound.
	AppendMessage(ctx context.Context, chatID string, msg model.ChatMessage) error

	// SetTitle names the chat. Safe to call while messages are being appended.
	SetTitle(ctx context.Context, chatID, title string) error
}

// ChatSummary contains metadata for listing chats.
type ChatSummary struct {
	ID           string
	Title        string
	ModelKey     string
	CreatedAt    time.Time
	MessageCount int
	Preview      string // First user message
}

// ModelResolver maps a stored model lookup key back to a ModelConfig.
type ModelResolver func(key string) (model.ModelConfig, error)

// DefaultPath returns the default database location.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "elia.sqlite"), nil
}

// DataDir returns $XDG_DATA_HOME/elia, falling back to ~/.local/share/elia.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "elia"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "elia"), nil
}
