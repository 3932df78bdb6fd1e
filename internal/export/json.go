// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/elia-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports chats to JSON format.
// JSON exports always include the complete chat and ignore filtering options.
// Model API keys pass through model.Secret and are written redacted.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	Generator  string         `json:"generator"`
	ExportedAt time.Time      `json:"exported_at"`
	Chat       model.ChatData `json:"chat"`
}

// Export converts a chat to JSON format.
func (e *JSONExporter) Export(chat model.ChatData) ([]byte, error) {
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("chat has no messages")
	}
	return json.MarshalIndent(jsonDocument{
		Generator:  "elia",
		ExportedAt: e.options.now().UTC(),
		Chat:       chat,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
