// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides chat persistence for elia.
//
// # Key Types
//
//   - ChatStore: The persistence contract the chat core depends on
//   - SQLiteStore: ChatStore backed by an embedded SQLite database
//   - ChatSummary: Lightweight metadata for listing chats
//
// # Usage
//
//	path, err := storage.DefaultPath()
//	store, err := storage.Open(ctx, path, storage.Options{
//	    Resolver: cat.Resolve,
//	})
//	id, err := store.CreateChat(ctx, chat)
//	err = store.AppendMessage(ctx, id, reply)
//	err = store.SetTitle(ctx, id, "Trip planning")
//
// # Guarantees
//
// CreateChat records the chat row and every initial message in one
// transaction: either all of it is durable and an ID is returned, or nothing
// is recorded. Messages are ordered by successful AppendMessage calls, not by
// their timestamps.
//
// # Storage Location
//
// Chats are stored in $XDG_DATA_HOME/elia/elia.sqlite
// (~/.local/share/elia/elia.sqlite by default).
package storage
