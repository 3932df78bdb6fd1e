// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the launch configuration for elia.
//
// # Key Types
//
//   - LaunchConfig: Settings read once at startup
//   - Watcher: Reloads the file when it changes on disk
//   - ValidationError: A single invalid setting
//
// # Configuration Precedence
//
//   - Command line flags (applied by the caller)
//   - $XDG_CONFIG_HOME/elia/config.toml
//   - Environment variables (ELIA_SYSTEM_PROMPT)
//   - Built-in defaults
//
// # Example File
//
//	default_model = "elia-claude-3-5-sonnet"
//	system_prompt = "You are a terse assistant."
//	message_code_theme = "dracula"
//	theme = "galaxy"
//
//	[[models]]
//	name = "ollama/llama3"
//	id = "local-llama"
//	api_base = "http://localhost:11434"
//
// Malformed [[models]] entries are skipped and reported as warnings so one
// typo never prevents startup.
package config
