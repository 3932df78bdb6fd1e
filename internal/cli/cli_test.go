// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/catalog"
	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/storage"
)

// =============================================================================
// HELPERS
// =============================================================================

type testEnv struct {
	dir        string
	configPath string
	dbPath     string
}

func newTestEnv(t *testing.T, configBody string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("ELIA_SYSTEM_PROMPT", "")

	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.toml"),
		dbPath:     filepath.Join(dir, "chats.sqlite"),
	}
	if configBody != "" {
		require.NoError(t, os.WriteFile(env.configPath, []byte(configBody), 0600))
	}
	return env
}

// run executes the command line and returns stdout, stderr and the error.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config", e.configPath, "--database", e.dbPath}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// seedChat stores a chat directly and returns its ID.
func (e *testEnv) seedChat(t *testing.T, prompt string) string {
	t.Helper()
	cat, _ := catalog.New(model.BuiltinModels(), nil)
	store, err := storage.Open(context.Background(), e.dbPath, storage.Options{Resolver: cat.Resolve})
	require.NoError(t, err)
	defer store.Close()

	m, err := cat.Resolve("elia-gpt-4o-mini")
	require.NoError(t, err)
	now := time.Now().UTC()
	id, err := store.CreateChat(context.Background(), model.ChatData{
		Model: m,
		Messages: []model.ChatMessage{
			{Role: model.RoleSystem, Content: "You are a helpful assistant named Elia.", Timestamp: now, Model: m},
			{Role: model.RoleUser, Content: prompt, Timestamp: now, Model: m},
		},
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) getChat(t *testing.T, id string) model.ChatData {
	t.Helper()
	cat, _ := catalog.New(model.BuiltinModels(), nil)
	store, err := storage.Open(context.Background(), e.dbPath, storage.Options{Resolver: cat.Resolve})
	require.NoError(t, err)
	defer store.Close()
	chat, err := store.GetChat(context.Background(), id)
	require.NoError(t, err)
	return chat
}

// =============================================================================
// MODELS COMMAND TESTS
// =============================================================================

func TestModels_ListsBuiltinAndUserModels(t *testing.T) {
	env := newTestEnv(t, `
default_model = "local-llama"

[[models]]
id = "local-llama"
name = "llama3"
display_name = "Llama 3 (local)"
api_base = "http://localhost:11434/v1"
`)

	out, _, err := env.run(t, "", "models")
	require.NoError(t, err)

	assert.Contains(t, out, "* local-llama")
	assert.Contains(t, out, "Llama 3 (local)")
	assert.Contains(t, out, "(custom)")
	assert.Contains(t, out, "elia-gpt-4o")
}

func TestModels_UnknownDefaultFallsBack(t *testing.T) {
	env := newTestEnv(t, `default_model = "does-not-exist"`)

	out, stderr, err := env.run(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, stderr, `default_model "does-not-exist" not found`)
	assert.Contains(t, out, "* elia-gpt-4o-mini")
}

func TestModels_InvalidConfig(t *testing.T) {
	env := newTestEnv(t, `message_code_theme = "no-such-style"`)

	_, _, err := env.run(t, "", "models")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestModels_SkippedEntryIsAWarning(t *testing.T) {
	env := newTestEnv(t, `
[[models]]
name = "ok-model"
api_base = "http://localhost:8080/v1"

[[models]]
name = 42
`)

	out, stderr, err := env.run(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")
	assert.Contains(t, out, "ok-model")
}

// =============================================================================
// CHAT COMMAND TESTS
// =============================================================================

func TestChats_Empty(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := env.run(t, "", "chats")
	require.NoError(t, err)
	assert.Contains(t, out, "No chats found.")
}

func TestChats_ListsPreview(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.seedChat(t, "What is the capital of France?")

	out, _, err := env.run(t, "", "chats")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "What is the capital")
	assert.Contains(t, out, "elia-gpt-4o-mini")
}

func TestRename_ByPrefix(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.seedChat(t, "hello")

	out, _, err := env.run(t, "", "rename", id[:8], "Greeting", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, `"Greeting chat"`)
	assert.Equal(t, "Greeting chat", env.getChat(t, id).Title)
}

func TestRename_UnknownChat(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedChat(t, "hello")

	_, _, err := env.run(t, "", "rename", "zzzz", "Title")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestExport_JSON(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.seedChat(t, "export me")
	outDir := filepath.Join(env.dir, "exports")

	out, _, err := env.run(t, "", "export", id, "--format", "json", "--output", outDir)
	require.NoError(t, err)

	path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Exported to "))
	require.Equal(t, outDir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Chat model.ChatData `json:"chat"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, id, doc.Chat.ID)
	require.Len(t, doc.Chat.Messages, 2)
	assert.Equal(t, "export me", doc.Chat.Messages[1].Content)
}

func TestExport_BadFormat(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.seedChat(t, "x")

	_, _, err := env.run(t, "", "export", id, "--format", "pdf")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedChat(t, "one")
	env.seedChat(t, "two")

	// go test has no terminal on stdin, so --yes is required.
	_, _, err := env.run(t, "", "reset")
	require.ErrorIs(t, err, ErrConfirmationRequired)

	out, _, err := env.run(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All chats deleted.")

	out, _, err = env.run(t, "", "chats")
	require.NoError(t, err)
	assert.Contains(t, out, "No chats found.")
}

func TestRoot_RequiresTerminal(t *testing.T) {
	if IsTTY() && IsStdoutTTY() {
		t.Skip("running in a terminal")
	}
	env := newTestEnv(t, "")

	_, _, err := env.run(t, "", "hello", "there")
	require.ErrorIs(t, err, ErrNotInteractive)
}

// =============================================================================
// APP TESTS
// =============================================================================

func TestOpenApp_UnknownModelFlag(t *testing.T) {
	env := newTestEnv(t, "")
	opts := &rootOptions{configPath: env.configPath, databasePath: env.dbPath, model: "nope"}

	_, err := openApp(context.Background(), opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestOpenApp_ModelFlagOverridesDefault(t *testing.T) {
	env := newTestEnv(t, "")
	opts := &rootOptions{configPath: env.configPath, databasePath: env.dbPath, model: "elia-gpt-4o"}

	a, err := openApp(context.Background(), opts, &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	cfg := a.runtime.Current()
	assert.Equal(t, "elia-gpt-4o", cfg.SelectedModel.LookupKey())
	assert.Equal(t, "You are a helpful assistant named Elia.", cfg.SystemPrompt)
}

// =============================================================================
// CONFIRM AND EXIT CODE TESTS
// =============================================================================

func TestConfirm(t *testing.T) {
	tests := []struct {
		input   string
		opts    ConfirmationOptions
		want    bool
		wantErr error
	}{
		{"", ConfirmationOptions{Yes: true}, true, nil},
		{"y\n", ConfirmationOptions{}, false, ErrConfirmationRequired},
		{"y\n", ConfirmationOptions{Interactive: true}, true, nil},
		{"YES\n", ConfirmationOptions{Interactive: true}, true, nil},
		{"\n", ConfirmationOptions{Interactive: true}, false, nil},
		{"nope", ConfirmationOptions{Interactive: true}, false, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%+v", tt.input, tt.opts), func(t *testing.T) {
			got, err := Confirm(strings.NewReader(tt.input), &bytes.Buffer{}, "do it", tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{apperr.NotFound("op", "missing"), ExitNotFoundError},
		{apperr.InvalidArgument("op", "bad"), ExitUsageError},
		{apperr.Persistence("op", errors.New("disk")), ExitStorageError},
		{configError{errors.New("bad toml")}, ExitConfigError},
		{NewCommandError("export", "write", apperr.Persistence("op", errors.New("disk"))), ExitStorageError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "ExitCode(%v)", tt.err)
	}
}
