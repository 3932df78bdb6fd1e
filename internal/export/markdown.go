// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/elia-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports chats to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is the YAML block at the top of an exported file.
type frontMatter struct {
	Title     string `yaml:"title"`
	ChatID    string `yaml:"chat_id,omitempty"`
	Model     string `yaml:"model"`
	Provider  string `yaml:"provider,omitempty"`
	Date      string `yaml:"date,omitempty"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a chat to Markdown format.
func (e *MarkdownExporter) Export(chat model.ChatData) ([]byte, error) {
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("chat has no messages")
	}

	title := ChatTitle(chat)
	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm := frontMatter{
			Title:     title,
			ChatID:    chat.ID,
			Model:     chat.Model.LookupKey(),
			Provider:  chat.Model.Provider,
			Messages:  len(chat.Messages),
			Exported:  e.options.now().UTC().Format(time.RFC3339),
			Generator: "elia",
		}
		if !chat.CreateTimestamp.IsZero() {
			fm.Date = chat.CreateTimestamp.UTC().Format(time.RFC3339)
		}
		data, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("marshal front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(data)
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(title))

	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		fmt.Fprintf(&sb, "- **Model**: %s\n", chat.Model.Label())
		if !chat.CreateTimestamp.IsZero() {
			fmt.Fprintf(&sb, "- **Created**: %s\n", formatTimestamp(chat.CreateTimestamp))
		}
		fmt.Fprintf(&sb, "- **Messages**: %d\n", len(chat.Messages))
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Conversation\n\n")

	for i, msg := range chat.Messages {
		label := formatRoleLabel(msg.Role)
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		// Replies from a model other than the chat's are marked.
		if msg.Role == model.RoleAssistant && msg.Model.LookupKey() != chat.Model.LookupKey() && msg.Model.Name != "" {
			fmt.Fprintf(&sb, "<sub>Model: %s</sub>\n\n", msg.Model.Label())
		}

		if i < len(chat.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	fmt.Fprintf(&sb, "*Exported from elia on %s*\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM"))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatRoleLabel returns a formatted label for the message role.
func formatRoleLabel(role model.Role) string {
	if role == "" {
		return "Unknown"
	}
	return "[" + role.DisplayName() + "]"
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}
