// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runtimecfg holds the configuration the user can change while the
// application runs: the selected model and the system prompt.
//
// The current value is an immutable snapshot replaced wholesale on every
// change. Each replacement is broadcast on a signal.Bus before Update returns,
// in the order the updates were applied.
package runtimecfg

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/signal"
)

// RuntimeConfig is a snapshot. Never modify one in place; build a new value
// and pass it to Manager.Update.
type RuntimeConfig struct {
	SelectedModel model.ModelConfig
	SystemPrompt  string
}

// WithModel returns a copy selecting m.
func (c RuntimeConfig) WithModel(m model.ModelConfig) RuntimeConfig {
	c.SelectedModel = m
	return c
}

// WithSystemPrompt returns a copy using prompt.
func (c RuntimeConfig) WithSystemPrompt(prompt string) RuntimeConfig {
	c.SystemPrompt = prompt
	return c
}

// Resolver resolves model lookup keys. *catalog.Catalog satisfies it.
type Resolver interface {
	Resolve(key string) (model.ModelConfig, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the current snapshot.
type Manager struct {
	resolver Resolver
	bus      *signal.Bus[RuntimeConfig]
	logger   *zap.Logger

	current atomic.Pointer[RuntimeConfig]

	// updateMu serialises install+publish so delivery order equals apply order.
	updateMu sync.Mutex
}

// NewManager creates a manager holding initial. The initial snapshot is
// validated like any update but not broadcast.
func NewManager(resolver Resolver, initial RuntimeConfig, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		resolver: resolver,
		bus:      signal.NewBus[RuntimeConfig](signal.TopicRuntimeConfigUpdated),
		logger:   logger.Named("runtimecfg"),
	}
	if err := m.validate(initial); err != nil {
		return nil, err
	}
	snapshot := initial
	m.current.Store(&snapshot)
	return m, nil
}

// Current returns the latest committed snapshot. It never blocks.
func (m *Manager) Current() RuntimeConfig {
	return *m.current.Load()
}

// Bus returns the bus snapshots are broadcast on.
func (m *Manager) Bus() *signal.Bus[RuntimeConfig] {
	return m.bus
}

// Subscribe registers h for every future update.
func (m *Manager) Subscribe(h signal.Handler[RuntimeConfig]) signal.Handle {
	return m.bus.Subscribe(h)
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(handle signal.Handle) bool {
	return m.bus.Unsubscribe(handle)
}

// Update installs cfg and broadcasts it to all subscribers before returning.
//
// The selected model must resolve in the catalog; the resolved lookup key is
// enough, the passed config is trusted as is. Subscriber failures are logged
// and do not fail the update. Handlers must not call Update synchronously.
func (m *Manager) Update(cfg RuntimeConfig) error {
	return m.apply(func(RuntimeConfig) RuntimeConfig { return cfg })
}

// SelectModel resolves key and makes it the selected model.
func (m *Manager) SelectModel(key string) error {
	selected, err := m.resolver.Resolve(key)
	if err != nil {
		return err
	}
	return m.apply(func(cur RuntimeConfig) RuntimeConfig { return cur.WithModel(selected) })
}

// SetSystemPrompt replaces the system prompt, keeping the selected model.
func (m *Manager) SetSystemPrompt(prompt string) error {
	return m.apply(func(cur RuntimeConfig) RuntimeConfig { return cur.WithSystemPrompt(prompt) })
}

// apply derives the next snapshot from the current one under updateMu, so
// concurrent partial changes never overwrite each other.
func (m *Manager) apply(next func(RuntimeConfig) RuntimeConfig) error {
	m.updateMu.Lock()
	defer m.updateMu.Unlock()

	snapshot := next(m.Current())
	if err := m.validate(snapshot); err != nil {
		return err
	}
	m.current.Store(&snapshot)

	if err := m.bus.Publish(snapshot); err != nil {
		for _, e := range multierr.Errors(err) {
			m.logger.Warn("runtime config subscriber failed", zap.Error(e))
		}
	}
	m.logger.Debug("runtime config updated",
		zap.Object("model", snapshot.SelectedModel),
		zap.Int("system_prompt_len", len(snapshot.SystemPrompt)))
	return nil
}

func (m *Manager) validate(cfg RuntimeConfig) error {
	const op = "runtimecfg.Update"

	if strings.TrimSpace(cfg.SelectedModel.Name) == "" {
		return apperr.InvalidArgument(op, "selected model has no name")
	}
	if _, err := m.resolver.Resolve(cfg.SelectedModel.LookupKey()); err != nil {
		return err
	}
	return nil
}
