// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea front end.
//
// The home screen takes a prompt and lists recent chats. Submitting a prompt
// launches a chat through the session orchestrator, which hands the stored
// chat back through ProgramPresenter; the chat screen then streams the
// assistant's reply and accepts follow-up messages.
//
// Work that outlives a single Update call (launching, streaming, title
// generation, configuration changes) reports back to the program with
// tea.Program.Send, so Model only ever changes inside Update.
package chat
