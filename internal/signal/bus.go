// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signal provides a synchronous, ordered publish/subscribe bus.
//
// A Bus delivers every published value to each handler that was subscribed
// when Publish started, in subscription order, before Publish returns.
// A failing or panicking handler never stops delivery to the handlers after
// it; failures are collected and returned once every handler has run.
//
// Handlers must return promptly. Slow work belongs on the subscriber's own
// goroutine, see Mailbox.
package signal

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/jeranaias/elia-tui/internal/apperr"
)

// TopicRuntimeConfigUpdated is the topic of the runtime configuration bus.
const TopicRuntimeConfigUpdated = "runtime-config-updated"

// Handler receives a published value.
type Handler[T any] func(T) error

// Handle identifies a subscription.
type Handle uint64

type subscription[T any] struct {
	handle  Handle
	handler Handler[T]
}

// Bus is a broadcast channel for values of type T under one topic.
type Bus[T any] struct {
	topic string

	mu   sync.Mutex
	next Handle
	subs []subscription[T]
}

// NewBus creates a bus for topic.
func NewBus[T any](topic string) *Bus[T] {
	return &Bus[T]{topic: topic}
}

// Topic returns the bus topic.
func (b *Bus[T]) Topic() string {
	return b.topic
}

// Subscribe registers h after all existing subscribers.
func (b *Bus[T]) Subscribe(h Handler[T]) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.subs = append(b.subs, subscription[T]{handle: b.next, handler: h})
	return b.next
}

// Unsubscribe removes the subscription. It reports false for unknown handles.
// A publish already in progress still delivers to the removed handler.
func (b *Bus[T]) Unsubscribe(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.handle == handle {
			// Copy so snapshots held by in-flight publishes stay intact.
			subs := make([]subscription[T], 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			b.subs = append(subs, b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of current subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers v to every current subscriber and returns the combined
// handler failures, each matching apperr.ErrHandler.
//
// Publish is safe to call concurrently, but values from concurrent publishers
// may interleave; callers needing a total order must serialise publishes.
func (b *Bus[T]) Publish(v T) error {
	b.mu.Lock()
	subs := b.subs[:len(b.subs):len(b.subs)]
	b.mu.Unlock()

	var errs error
	for i, s := range subs {
		if err := b.deliver(s, v); err != nil {
			errs = multierr.Append(errs, apperr.Handler("signal.Publish("+b.topic+")", i, err))
		}
	}
	return errs
}

func (b *Bus[T]) deliver(s subscription[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler(v)
}
