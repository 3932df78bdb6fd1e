// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm talks to chat-completion providers.
//
// Every built-in provider (OpenAI, Anthropic and Google Gemini) exposes an
// OpenAI-compatible /chat/completions endpoint, so a single Client serves all
// of them. The provider is picked from the model's Provider field or its name;
// a model with api_base set is sent to that URL verbatim.
//
// # Key Types
//
//   - Completer: the transport boundary used by the rest of the program
//   - Client: HTTP implementation with retries and SSE streaming
//   - TitleGenerator: names new chats in the background
//
// # Usage
//
//	client := llm.NewClient(llm.WithLogger(logger))
//	reply, err := client.Complete(ctx, cfg, chat.Messages)
//
// API keys come from the model's api_key, else OPENAI_API_KEY,
// ANTHROPIC_API_KEY or GEMINI_API_KEY. Keys are never logged.
package llm
