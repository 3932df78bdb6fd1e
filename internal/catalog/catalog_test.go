// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/model"
)

func testBuiltins() []model.ModelConfig {
	return []model.ModelConfig{
		{ID: "elia-gpt-4o", Name: "gpt-4o", Provider: "OpenAI", Temperature: 0.7},
		{ID: "elia-gpt-4o-mini", Name: "gpt-4o-mini", Provider: "OpenAI", Temperature: 0.7},
		{Name: "claude-3-haiku-20240307", Provider: "Anthropic", Temperature: 1},
	}
}

func keys(models []model.ModelConfig) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.LookupKey()
	}
	return out
}

func TestResolve_UserTakesPrecedence(t *testing.T) {
	c, problems := New(testBuiltins(), []model.RawModel{
		{ID: "elia-gpt-4o", Name: "gpt-4o", Provider: "Work", APIKey: "sk-work"},
	})
	require.Empty(t, problems)

	got, err := c.Resolve("elia-gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Provider)
	assert.Equal(t, "sk-work", got.APIKey.Reveal())

	// Built-in still reachable through its own key when not shadowed.
	mini, err := c.Resolve("elia-gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", mini.Provider)
}

func TestResolve_ByNameWhenNoID(t *testing.T) {
	c, _ := New(testBuiltins(), nil)

	got, err := c.Resolve("claude-3-haiku-20240307")
	require.NoError(t, err)
	assert.Equal(t, "Anthropic", got.Provider)

	// A model with an ID is addressed by the ID only.
	_, err = c.Resolve("gpt-4o")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResolve_UnknownKeyNeverDefaults(t *testing.T) {
	c, _ := New(model.BuiltinModels(), nil)

	for _, key := range []string{"", "nope", "ELIA-GPT-4O"} {
		got, err := c.Resolve(key)
		assert.ErrorIs(t, err, apperr.ErrNotFound, key)
		assert.Equal(t, model.ModelConfig{}, got)
	}
}

func TestNew_SkipsMalformedEntries(t *testing.T) {
	negative := -2
	c, problems := New(testBuiltins(), []model.RawModel{
		{Name: ""},
		{Name: "ok-model", ID: "mine"},
		{Name: "bad", MaxRetries: &negative},
		{Name: "other", ID: "mine"},
	})

	require.Len(t, problems, 3)
	for _, p := range problems {
		assert.ErrorIs(t, p, apperr.ErrInvalidArgument)
	}

	got, err := c.Resolve("mine")
	require.NoError(t, err)
	assert.Equal(t, "ok-model", got.Name)
	assert.Equal(t, 4, c.Len())
}

func TestMerged_UserFirstNoDuplicates(t *testing.T) {
	c, _ := New(testBuiltins(), []model.RawModel{
		{Name: "llama3", ID: "local"},
		{ID: "elia-gpt-4o-mini", Name: "gpt-4o-mini", Provider: "Proxy"},
	})

	want := []string{"local", "elia-gpt-4o-mini", "elia-gpt-4o", "claude-3-haiku-20240307"}
	if diff := cmp.Diff(want, keys(c.Merged())); diff != "" {
		t.Errorf("Merged() keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMerged_ReturnsCopy(t *testing.T) {
	c, _ := New(testBuiltins(), nil)
	merged := c.Merged()
	merged[0].Name = "mutated"

	got, err := c.Resolve("elia-gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.Name)
}

func TestNext_Wraps(t *testing.T) {
	c, _ := New(testBuiltins(), nil)

	assert.Equal(t, "elia-gpt-4o-mini", c.Next("elia-gpt-4o").LookupKey())
	assert.Equal(t, "elia-gpt-4o", c.Next("claude-3-haiku-20240307").LookupKey())
	assert.Equal(t, "elia-gpt-4o", c.Next("unknown").LookupKey())
	assert.True(t, c.Contains("elia-gpt-4o"))
}
