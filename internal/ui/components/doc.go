// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for elia.

Each component is a small Bubble Tea model styled by a styles.Theme.

ResponseStatus (status.go) - Spinner shown while a reply is awaited or
streaming: "Awaiting response" before the first token, "Agent is
responding" after it.

RenameModal (rename.go) - Single-line dialog for naming a chat.

MarkdownRenderer (markdown.go) - Glamour renderer whose code blocks use the
configured Chroma style.
*/
package components
