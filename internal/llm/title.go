// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/util"
)

const (
	// DefaultTitleTimeout bounds a single title request.
	DefaultTitleTimeout = 30 * time.Second

	// DefaultTitleConcurrency is the number of titles generated at once.
	DefaultTitleConcurrency = 2

	// MaxTitleRunes caps generated titles.
	MaxTitleRunes = 60

	titleInstruction = "Generate a short title, at most six words, for a conversation " +
		"that begins with the user message below. Reply with the title only, " +
		"without quotes or trailing punctuation."
)

// TitleStore records generated titles. storage.ChatStore satisfies it.
type TitleStore interface {
	SetTitle(ctx context.Context, chatID, title string) error
}

// TitleGenerator names chats in the background using the chat's own model.
// RequestTitle never blocks: when every worker is busy the request is dropped
// and the chat keeps its untitled preview.
type TitleGenerator struct {
	completer Completer
	store     TitleStore
	logger    *zap.Logger
	timeout   time.Duration
	onTitle   func(chatID, title string)

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu     sync.Mutex
	closed bool
}

// TitleOption configures a TitleGenerator.
type TitleOption func(*TitleGenerator)

// WithTitleLogger sets the logger.
func WithTitleLogger(l *zap.Logger) TitleOption {
	return func(g *TitleGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTitleTimeout bounds each title request.
func WithTitleTimeout(d time.Duration) TitleOption {
	return func(g *TitleGenerator) { g.timeout = d }
}

// OnTitle registers fn to run after a title has been stored. It runs on a
// worker goroutine.
func OnTitle(fn func(chatID, title string)) TitleOption {
	return func(g *TitleGenerator) { g.onTitle = fn }
}

// NewTitleGenerator creates a generator. Close must be called to release it.
func NewTitleGenerator(completer Completer, store TitleStore, opts ...TitleOption) *TitleGenerator {
	ctx, cancel := context.WithCancel(context.Background())
	g := &TitleGenerator{
		completer: completer,
		store:     store,
		logger:    zap.NewNop(),
		timeout:   DefaultTitleTimeout,
		ctx:       ctx,
		cancel:    cancel,
		group:     &errgroup.Group{},
	}
	g.group.SetLimit(DefaultTitleConcurrency)
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.Named("titles")
	return g
}

// RequestTitle schedules title generation for a persisted chat.
func (g *TitleGenerator) RequestTitle(chat model.ChatData) {
	first, ok := chat.FirstUserMessage()
	if !chat.Persisted() || !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}

	started := g.group.TryGo(func() error {
		g.generate(chat, first)
		return nil
	})
	if !started {
		g.logger.Debug("title workers busy, skipping", zap.String("chat_id", chat.ID))
	}
}

func (g *TitleGenerator) generate(chat model.ChatData, first model.ChatMessage) {
	ctx, cancel := context.WithTimeout(g.ctx, g.timeout)
	defer cancel()

	prompt := []model.ChatMessage{
		{Role: model.RoleSystem, Content: titleInstruction, Model: chat.Model},
		{Role: model.RoleUser, Content: first.Content, Model: chat.Model},
	}
	reply, err := g.completer.Complete(ctx, chat.Model, prompt)
	if err != nil {
		g.logger.Warn("title generation failed", zap.String("chat_id", chat.ID), zap.Error(err))
		return
	}

	title := CleanTitle(reply)
	if title == "" {
		g.logger.Debug("model returned an empty title", zap.String("chat_id", chat.ID))
		return
	}

	if err := g.store.SetTitle(ctx, chat.ID, title); err != nil {
		g.logger.Warn("failed to store title", zap.String("chat_id", chat.ID), zap.Error(err))
		return
	}
	g.logger.Debug("chat titled", zap.String("chat_id", chat.ID), zap.String("title", title))

	if g.onTitle != nil {
		g.onTitle(chat.ID, title)
	}
}

// Wait blocks until every scheduled title has been handled.
func (g *TitleGenerator) Wait() {
	_ = g.group.Wait()
}

// Close cancels outstanding requests and waits for the workers to exit.
// Later RequestTitle calls are ignored.
func (g *TitleGenerator) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	g.Wait()
}

// CleanTitle reduces a model reply to a single-line title.
func CleanTitle(reply string) string {
	title := util.SingleLine(reply)
	title = strings.TrimPrefix(title, "Title:")
	title = strings.Trim(title, " \"'`*")
	title = strings.TrimRight(title, ".!")
	return util.TruncateRunes(strings.TrimSpace(title), MaxTitleRunes)
}
