// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for models, chats and messages.
//
// # Key Types
//
//   - ModelConfig: A provider-bound model definition addressed by its lookup key
//   - RawModel: Unvalidated model entry as read from user configuration
//   - Secret: API key holder that never prints its value
//   - ChatMessage: Single immutable message with role, content and timestamp
//   - ChatData: A chat with its messages; ID, Title and CreateTimestamp are
//     zero until the chat is persisted
//
// # Usage
//
// Validate a user entry:
//
//	cfg, err := model.NewModelConfig(model.RawModel{Name: "gpt-4o", ID: "work-gpt"})
//	if err != nil {
//	    // errors.Is(err, apperr.ErrInvalidArgument)
//	}
//	fmt.Println(cfg.LookupKey()) // work-gpt
//
// Models are immutable once constructed; runtime changes only select a
// different one.
package model
