// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chats to files.
//
// # Key Types
//
//   - Exporter: Converts a chat to bytes in one format
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - Markdown: Human-readable with a YAML front matter block
//   - JSON: Machine-readable; API keys are always redacted
//
// # Usage
//
//	exporter, err := export.ForFormat("md", nil)
//	path, err := export.ExportToFile(chat, exporter, nil)
package export
