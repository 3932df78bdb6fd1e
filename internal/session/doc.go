// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session launches and continues chats.
//
// The Orchestrator turns a prompt into a persisted chat: it builds the
// opening system and user messages, records them through a storage.ChatStore
// and hands the result to a Presenter.
//
// # Key Types
//
//   - Orchestrator: Coordinates a chat launch
//   - Presenter: Receives every successfully launched chat
//   - TitleRequester: Optional hook asked to name a new chat
//   - Responder: Records follow-up messages and streamed replies
//
// # Usage
//
//	orch := session.NewOrchestrator(store, manager, presenter,
//	    session.WithTitleRequester(titles),
//	    session.WithLogger(logger),
//	)
//	chat, err := orch.LaunchChat(ctx, "What is a monad?", manager.Current().SelectedModel)
//
// The model passed to LaunchChat is used for that chat even when it differs
// from the runtime default.
package session
