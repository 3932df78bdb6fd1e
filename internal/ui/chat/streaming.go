// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/elia-tui/internal/model"
)

// Replier continues a chat. *session.Responder satisfies it.
type Replier interface {
	Send(ctx context.Context, chat model.ChatData, content string) (model.ChatData, error)
	Reply(ctx context.Context, chat model.ChatData, onDelta func(string)) (model.ChatData, error)
}

// =============================================================================
// STREAM RUNNER
// =============================================================================

// StreamRunner runs a reply and reports its progress to the program.
type StreamRunner struct {
	sender  Sender
	replier Replier
}

// NewStreamRunner creates a new stream runner.
func NewStreamRunner(sender Sender, replier Replier) *StreamRunner {
	return &StreamRunner{sender: sender, replier: replier}
}

// Run streams a reply to chat. It blocks until the reply is complete, has
// failed or ctx is cancelled.
func (r *StreamRunner) Run(ctx context.Context, chat model.ChatData) {
	r.sender.Send(StreamStartMsg{ChatID: chat.ID, StartTime: time.Now()})

	isFirst := true
	updated, err := r.replier.Reply(ctx, chat, func(delta string) {
		r.sender.Send(StreamTokenMsg{ChatID: chat.ID, Token: delta, IsFirst: isFirst})
		isFirst = false
	})
	if err != nil {
		r.sender.Send(StreamErrorMsg{ChatID: chat.ID, Err: err})
		return
	}
	r.sender.Send(StreamCompleteMsg{Chat: updated})
}

// =============================================================================
// CANCELLATION
// =============================================================================

// cancelManager holds the cancel function of the reply in flight. Model is
// copied on every update, so it keeps a pointer to one of these.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// begin returns a context for a new reply, cancelling any previous one.
func (c *cancelManager) begin() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return ctx
}

// stop cancels the reply in flight, if any.
func (c *cancelManager) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
