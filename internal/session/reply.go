// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/storage"
)

// =============================================================================
// RESPONDER
// =============================================================================

// Streamer produces an assistant reply piece by piece. *llm.Client
// satisfies it.
type Streamer interface {
	Stream(ctx context.Context, m model.ModelConfig, messages []model.ChatMessage, onDelta func(string)) (string, error)
}

// Responder continues persisted chats: it records follow-up user messages
// and the assistant's replies.
type Responder struct {
	store    storage.ChatStore
	streamer Streamer
	logger   *zap.Logger
	now      func() time.Time
}

// NewResponder creates a Responder. A nil logger discards output.
func NewResponder(store storage.ChatStore, streamer Streamer, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{
		store:    store,
		streamer: streamer,
		logger:   logger.Named("responder"),
		now:      time.Now,
	}
}

// Send appends a user message to chat and returns the updated copy.
func (r *Responder) Send(ctx context.Context, chat model.ChatData, content string) (model.ChatData, error) {
	const op = "session.Send"

	if !chat.Persisted() {
		return chat, apperr.InvalidArgument(op, "chat has not been created")
	}
	if strings.TrimSpace(content) == "" {
		return chat, apperr.InvalidArgument(op, "message must not be empty")
	}

	msg := model.ChatMessage{
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: r.now().UTC(),
		Model:     chat.Model,
	}
	if err := r.store.AppendMessage(ctx, chat.ID, msg); err != nil {
		return chat, err
	}
	return chat.WithMessage(msg), nil
}

// Reply asks the chat's model to answer the conversation so far. onDelta
// receives the reply as it streams in. The complete reply is stored; a
// failed or cancelled stream stores nothing.
func (r *Responder) Reply(ctx context.Context, chat model.ChatData, onDelta func(string)) (model.ChatData, error) {
	const op = "session.Reply"

	if !chat.Persisted() {
		return chat, apperr.InvalidArgument(op, "chat has not been created")
	}

	content, err := r.streamer.Stream(ctx, chat.Model, chat.Messages, onDelta)
	if err != nil {
		r.logger.Warn("reply failed", zap.String("chat_id", chat.ID), zap.Error(err))
		return chat, err
	}

	msg := model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   content,
		Timestamp: r.now().UTC(),
		Model:     chat.Model,
	}
	if err := r.store.AppendMessage(ctx, chat.ID, msg); err != nil {
		return chat, err
	}
	r.logger.Debug("reply stored", zap.String("chat_id", chat.ID), zap.Int("chars", len(content)))
	return chat.WithMessage(msg), nil
}
