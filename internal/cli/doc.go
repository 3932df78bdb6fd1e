// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the elia command line.
//
// Running elia with no subcommand opens the TUI; any arguments become the
// first prompt. Subcommands work on the chat database without starting the
// TUI:
//
//	elia models            list configured models
//	elia chats             list stored chats
//	elia rename ID TITLE   set a chat title
//	elia export ID         write a chat to Markdown or JSON
//	elia reset             delete every stored chat
package cli
