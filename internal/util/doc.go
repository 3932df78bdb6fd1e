// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the application.
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadWidth, StringWidth: display-width aware layout
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Fit a chat title into a fixed column
//	cell := util.PadWidth(util.TruncateWidth(title, 30), 30)
//
//	// Write an export atomically to prevent partial files
//	err := util.AtomicWriteFile(path, data, 0644)
package util
