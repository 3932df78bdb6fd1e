// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog merges built-in and user-defined models and resolves
// lookup keys against them.
//
// User entries always take precedence over built-ins sharing the same lookup
// key. The catalog is read-only after construction and safe for concurrent use
// without locking.
package catalog

import (
	"fmt"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/model"
)

// Catalog is the merged, precedence-ordered set of model configurations.
type Catalog struct {
	user     []model.ModelConfig
	builtins []model.ModelConfig

	userIndex    map[string]int
	builtinIndex map[string]int
}

// New builds a catalog from the built-in models and the raw user entries.
//
// Malformed user entries (and user entries repeating an earlier user lookup
// key) are skipped; one error per skipped entry is returned so the caller can
// warn about it. Built-ins always load.
func New(builtins []model.ModelConfig, user []model.RawModel) (*Catalog, []error) {
	c := &Catalog{
		builtins:     append([]model.ModelConfig(nil), builtins...),
		userIndex:    make(map[string]int, len(user)),
		builtinIndex: make(map[string]int, len(builtins)),
	}

	for i, m := range c.builtins {
		if _, dup := c.builtinIndex[m.LookupKey()]; !dup {
			c.builtinIndex[m.LookupKey()] = i
		}
	}

	var problems []error
	for i, raw := range user {
		cfg, err := model.NewModelConfig(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("models[%d]: %w", i, err))
			continue
		}
		key := cfg.LookupKey()
		if _, dup := c.userIndex[key]; dup {
			problems = append(problems, fmt.Errorf("models[%d]: %w", i,
				apperr.InvalidArgument("catalog.New", "duplicate lookup key %q", key)))
			continue
		}
		c.userIndex[key] = len(c.user)
		c.user = append(c.user, cfg)
	}

	return c, problems
}

// Resolve returns the model addressed by key, scanning user entries first.
// An unknown key is apperr.ErrNotFound.
func (c *Catalog) Resolve(key string) (model.ModelConfig, error) {
	if i, ok := c.userIndex[key]; ok {
		return c.user[i], nil
	}
	if i, ok := c.builtinIndex[key]; ok {
		return c.builtins[i], nil
	}
	return model.ModelConfig{}, apperr.NotFound("catalog.Resolve", "unknown model %q", key)
}

// Contains reports whether key resolves.
func (c *Catalog) Contains(key string) bool {
	_, err := c.Resolve(key)
	return err == nil
}

// Merged returns user entries followed by built-ins. Built-ins shadowed by a
// user entry are omitted so every key appears once.
func (c *Catalog) Merged() []model.ModelConfig {
	out := make([]model.ModelConfig, 0, len(c.user)+len(c.builtins))
	out = append(out, c.user...)
	for _, m := range c.builtins {
		if _, shadowed := c.userIndex[m.LookupKey()]; shadowed {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Next returns the model after key in Merged order, wrapping around.
// An unknown key yields the first model.
func (c *Catalog) Next(key string) model.ModelConfig {
	merged := c.Merged()
	if len(merged) == 0 {
		return model.ModelConfig{}
	}
	for i, m := range merged {
		if m.LookupKey() == key {
			return merged[(i+1)%len(merged)]
		}
	}
	return merged[0]
}

// Len returns the number of distinct lookup keys.
func (c *Catalog) Len() int {
	return len(c.Merged())
}
