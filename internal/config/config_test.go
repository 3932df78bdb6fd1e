// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/elia-tui/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	t.Setenv(EnvSystemPrompt, "")
	cfg := Default()

	assert.Equal(t, "elia-gpt-4o-mini", cfg.DefaultModel)
	assert.Equal(t, "You are a helpful assistant named Elia.", cfg.SystemPrompt)
	assert.Equal(t, "monokai", cfg.MessageCodeTheme)
	assert.Equal(t, "nebula", cfg.Theme)
	assert.Empty(t, cfg.Models)
	assert.NoError(t, cfg.Validate())
}

func TestSystemPrompt_EnvFallback(t *testing.T) {
	t.Setenv(EnvSystemPrompt, "Reply in haiku.")

	cfg, _, err := Parse([]byte(`theme = "galaxy"`))
	require.NoError(t, err)
	assert.Equal(t, "Reply in haiku.", cfg.SystemPrompt)

	// The file wins over the environment.
	cfg, _, err = Parse([]byte(`system_prompt = "From file."`))
	require.NoError(t, err)
	assert.Equal(t, "From file.", cfg.SystemPrompt)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, warnings, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, DefaultModel, cfg.DefaultModel)
}

// =============================================================================
// PARSING
// =============================================================================

func TestParse_FullFile(t *testing.T) {
	data := `
default_model = "local"
message_code_theme = "dracula"
theme = "galaxy"

[[models]]
name = "llama3"
id = "local"
api_base = "http://localhost:11434/v1"
temperature = 0.2

[[models]]
name = "gpt-4o"
id = "work"
api_key = "sk-work"
organization = "acme"
max_retries = 3
`
	cfg, warnings, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "local", cfg.DefaultModel)
	assert.Equal(t, "dracula", cfg.MessageCodeTheme)
	require.Len(t, cfg.Models, 2)
	assert.Equal(t, "llama3", cfg.Models[0].Name)
	require.NotNil(t, cfg.Models[0].Temperature)
	assert.InDelta(t, 0.2, *cfg.Models[0].Temperature, 1e-9)
	assert.Nil(t, cfg.Models[0].MaxRetries)
	assert.Equal(t, "sk-work", cfg.Models[1].APIKey)
	require.NotNil(t, cfg.Models[1].MaxRetries)
	assert.Equal(t, 3, *cfg.Models[1].MaxRetries)
}

func TestParse_MalformedModelSkipped(t *testing.T) {
	data := `
[[models]]
name = "good"

[[models]]
name = "bad"
temperature = "very hot"

[[models]]
name = "also-good"
`
	cfg, warnings, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, cfg.Models, 2)
	assert.Equal(t, "good", cfg.Models[0].Name)
	assert.Equal(t, "also-good", cfg.Models[1].Name)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "models[1]")
}

func TestParse_UnknownKeyWarns(t *testing.T) {
	cfg, warnings, err := Parse([]byte(`colour = "blue"`))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "colour")
}

func TestParse_SyntaxError(t *testing.T) {
	_, _, err := Parse([]byte(`default_model = `))
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_UnknownCodeTheme(t *testing.T) {
	_, _, err := Parse([]byte(`message_code_theme = "no-such-style"`))
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "message_code_theme", verrs[0].Field)
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := &LaunchConfig{MessageCodeTheme: "nope"}
	err := cfg.Validate()

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.True(t, strings.Contains(err.Error(), "default_model"))
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elia", "config.toml")
	temp := 0.5
	cfg := Default()
	cfg.Theme = "hacker"
	cfg.Models = append(cfg.Models, model.RawModel{Name: "llama3", ID: "local", Temperature: &temp})

	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, cfg, loaded)
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`system_prompt = "one"`), 0600))

	reloaded := make(chan *LaunchConfig, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, zaptest.NewLogger(t), func(cfg *LaunchConfig, _ []error) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`system_prompt = "two"`), 0600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "two", cfg.SystemPrompt)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcher_InvalidFileNotDelivered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	calls := make(chan struct{}, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, zaptest.NewLogger(t), func(*LaunchConfig, []error) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`x = 1`), 0600))
	require.NoError(t, os.WriteFile(path, []byte(`message_code_theme = "nope"`), 0600))

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, w.Close())
	assert.Empty(t, calls)
}
