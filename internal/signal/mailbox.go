// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package signal

import (
	"sync"
)

// Mailbox hands values to a slow consumer on its own goroutine, preserving
// order and never dropping. Post never blocks.
type Mailbox[T any] struct {
	deliver func(T)

	mu      sync.Mutex
	queue   []T
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewMailbox starts a mailbox that calls deliver for each posted value.
func NewMailbox[T any](deliver func(T)) *Mailbox[T] {
	m := &Mailbox[T]{
		deliver: deliver,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go m.run()
	return m
}

// Handler returns a bus handler that posts into the mailbox.
func (m *Mailbox[T]) Handler() Handler[T] {
	return func(v T) error {
		m.Post(v)
		return nil
	}
}

// Post enqueues v. Values posted after Close are discarded.
func (m *Mailbox[T]) Post(v T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, v)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Close delivers everything already posted, then stops the goroutine.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.stopped
		return
	}
	m.closed = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	<-m.stopped
}

func (m *Mailbox[T]) run() {
	defer close(m.stopped)
	for range m.wake {
		for {
			m.mu.Lock()
			if len(m.queue) == 0 {
				closed := m.closed
				m.mu.Unlock()
				if closed {
					return
				}
				break
			}
			v := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()

			m.deliver(v)
		}
	}
}
