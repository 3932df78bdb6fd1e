// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/elia-tui/internal/model"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func testChat() model.ChatData {
	m := model.ModelConfig{
		ID:          "work-gpt",
		Name:        "gpt-4o",
		DisplayName: "GPT-4o",
		Provider:    "OpenAI",
		APIKey:      model.NewSecret("sk-very-secret"),
	}
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.ChatData{
		ID:              "chat-1",
		Title:           "Weekend plans",
		CreateTimestamp: ts,
		Model:           m,
		Messages: []model.ChatMessage{
			{Role: model.RoleSystem, Content: "be nice", Timestamp: ts, Model: m},
			{Role: model.RoleUser, Content: "hello", Timestamp: ts, Model: m},
			{Role: model.RoleAssistant, Content: "hi!\n```go\nfmt.Println()\n```", Timestamp: ts, Model: m},
		},
	}
}

// frontMatterOf extracts the YAML block between the leading --- lines.
func frontMatterOf(t *testing.T, out string) frontMatter {
	t.Helper()
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing front matter:\n%s", out)
	}
	rest := out[len("---\n"):]
	end := strings.Index(rest, "---\n")
	if end < 0 {
		t.Fatalf("unterminated front matter:\n%s", out)
	}
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		t.Fatalf("front matter is not valid YAML: %v", err)
	}
	return fm
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(testChat())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	fm := frontMatterOf(t, result)
	if fm.Title != "Weekend plans" || fm.Model != "work-gpt" || fm.Messages != 3 {
		t.Errorf("unexpected front matter: %+v", fm)
	}
	if fm.Date != "2025-03-01T12:00:00Z" {
		t.Errorf("date = %q", fm.Date)
	}

	for _, want := range []string{
		"# Weekend plans",
		"### [System] <sub>12:00:00</sub>",
		"### [You]",
		"### [Assistant]",
		"```go\nfmt.Println()\n```",
		"- **Model**: GPT-4o",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(result, "sk-very-secret") {
		t.Error("API key leaked into Markdown export")
	}
}

func TestMarkdownExport_TitleInjection(t *testing.T) {
	chat := testChat()
	chat.Title = "Test\nInjection: malicious"

	out, err := NewMarkdownExporter(nil).Export(chat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	fm := frontMatterOf(t, string(out))
	if fm.Title != chat.Title {
		t.Errorf("title did not survive YAML quoting: %q", fm.Title)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Injection:") {
			t.Error("title newline escaped the front matter value")
		}
	}
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(testChat())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)
	if strings.HasPrefix(result, "---") {
		t.Error("front matter written with IncludeMetadata=false")
	}
	if strings.Contains(result, "<sub>12:00:00</sub>") {
		t.Error("timestamps written with IncludeTimestamps=false")
	}
}

func TestMarkdownExport_UntitledUsesPreview(t *testing.T) {
	chat := testChat()
	chat.Title = ""
	out, err := NewMarkdownExporter(nil).Export(chat)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), "# hello\n") {
		t.Errorf("expected the first user message as heading:\n%s", out)
	}
}

func TestExport_EmptyChatRejected(t *testing.T) {
	for _, format := range []string{"md", "json"} {
		exporter, err := ForFormat(format, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", format, err)
		}
		if _, err := exporter.Export(model.ChatData{}); err == nil {
			t.Errorf("%s: expected error for chat without messages", format)
		}
	}
}

func TestJSONExport_RedactsSecret(t *testing.T) {
	out, err := NewJSONExporter(testOptions(t.TempDir())).Export(testChat())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.Contains(string(out), "sk-very-secret") {
		t.Fatal("API key leaked into JSON export")
	}

	var doc struct {
		Generator string `json:"generator"`
		Chat      struct {
			ID       string `json:"id"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		} `json:"chat"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Generator != "elia" || doc.Chat.ID != "chat-1" || len(doc.Chat.Messages) != 3 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.Chat.Messages[1].Role != "user" || doc.Chat.Messages[1].Content != "hello" {
		t.Errorf("unexpected message: %+v", doc.Chat.Messages[1])
	}
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	opts := testOptions(dir)

	chat := testChat()
	chat.Title = "a/b: c?"

	path, err := ExportToFile(chat, NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	want := filepath.Join(dir, "chat_a-b-_c-_20250304_050607.md")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "## Conversation") {
		t.Error("exported file is missing the conversation")
	}
}

func TestForFormat_Unknown(t *testing.T) {
	if _, err := ForFormat("html", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":           "chat",
		"plain":      "plain",
		"with space": "with_space",
		"tab\there":  "tab_here",
		"bell\x07":   "bell-",
		"C:\\path|x": "C--path-x",
	}
	tests[strings.Repeat("é", 60)] = strings.Repeat("é", 50)
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
