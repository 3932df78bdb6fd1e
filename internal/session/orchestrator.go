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
	"github.com/jeranaias/elia-tui/internal/runtimecfg"
	"github.com/jeranaias/elia-tui/internal/storage"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Presenter displays a launched chat. The chat always carries its ID.
type Presenter interface {
	PresentChat(chat model.ChatData)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(chat model.ChatData)

// PresentChat calls f(chat).
func (f PresenterFunc) PresentChat(chat model.ChatData) { f(chat) }

// TitleRequester is asked to name a chat once it exists. Implementations
// must not block; titles are written back through ChatStore.SetTitle.
type TitleRequester interface {
	RequestTitle(chat model.ChatData)
}

// ConfigSource supplies the current runtime configuration.
// *runtimecfg.Manager satisfies it.
type ConfigSource interface {
	Current() runtimecfg.RuntimeConfig
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator launches chats. It holds no per-chat state, so concurrent
// LaunchChat calls are independent.
type Orchestrator struct {
	store     storage.ChatStore
	config    ConfigSource
	presenter Presenter
	titles    TitleRequester
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTitleRequester asks r for a title after every launch.
func WithTitleRequester(r TitleRequester) Option {
	return func(o *Orchestrator) { o.titles = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator. A nil presenter discards chats.
func NewOrchestrator(store storage.ChatStore, config ConfigSource, presenter Presenter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		config:    config,
		presenter: presenter,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.Named("session")
	return o
}

// LaunchChat creates a chat opened by prompt and tagged with m.
//
// A blank prompt is apperr.ErrInvalidArgument and nothing is stored. Storage
// failures are returned as they come from the store and nothing is presented.
// On success the returned chat has its ID and creation time set and has
// already been handed to the presenter.
func (o *Orchestrator) LaunchChat(ctx context.Context, prompt string, m model.ModelConfig) (model.ChatData, error) {
	const op = "session.LaunchChat"

	if strings.TrimSpace(prompt) == "" {
		return model.ChatData{}, apperr.InvalidArgument(op, "prompt must not be empty")
	}

	t := o.now().UTC()
	systemPrompt := o.config.Current().SystemPrompt

	chat := model.ChatData{
		Model: m,
		Messages: []model.ChatMessage{
			{Role: model.RoleSystem, Content: systemPrompt, Timestamp: t, Model: m},
			{Role: model.RoleUser, Content: prompt, Timestamp: t, Model: m},
		},
	}

	id, err := o.store.CreateChat(ctx, chat)
	if err != nil {
		o.logger.Warn("chat launch failed", zap.Object("model", m), zap.Error(err))
		return model.ChatData{}, err
	}
	chat.ID = id
	chat.CreateTimestamp = t

	o.logger.Info("chat launched", zap.String("chat_id", id), zap.Object("model", m))

	if o.presenter != nil {
		o.presenter.PresentChat(chat)
	}
	if o.titles != nil {
		o.titles.RequestTitle(chat)
	}
	return chat, nil
}
