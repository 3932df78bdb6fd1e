// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// BUILT-IN MODEL REGISTRY
// =============================================================================

// BuiltinModels returns the models shipped with elia: OpenAI, then Anthropic,
// then Google. Each call returns a fresh slice.
func BuiltinModels() []ModelConfig {
	models := openAIModels()
	models = append(models, anthropicModels()...)
	return append(models, googleModels()...)
}

func openAIModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:          "elia-gpt-4o",
			Name:        "gpt-4o",
			DisplayName: "GPT-4o",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Fastest and most affordable flagship model.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-gpt-4o-mini",
			Name:        "gpt-4o-mini",
			DisplayName: "GPT-4o Mini",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Fast, affordable small model for focused tasks.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-gpt-4.1",
			Name:        "gpt-4.1",
			DisplayName: "GPT-4.1",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Most capable GPT-4 series model for complex tasks.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-gpt-4.1-mini",
			Name:        "gpt-4.1-mini",
			DisplayName: "GPT-4.1 Mini",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Beats GPT-4o on many benchmarks, efficient small model.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-gpt-4.1-nano",
			Name:        "gpt-4.1-nano",
			DisplayName: "GPT-4.1 Nano",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Smallest and fastest GPT-4.1 model.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-o1",
			Name:        "o1",
			DisplayName: "o1",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Advanced reasoning model for STEM and complex tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o1-mini",
			Name:        "o1-mini",
			DisplayName: "o1 Mini",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Faster reasoning model for focused STEM tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o1-pro",
			Name:        "o1-pro",
			DisplayName: "o1 Pro",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Most powerful reasoning model for expert-level tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o3",
			Name:        "o3",
			DisplayName: "o3",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Next-generation reasoning model.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o3-pro",
			Name:        "o3-pro",
			DisplayName: "o3 Pro",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Most advanced reasoning model available.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o4-mini",
			Name:        "o4-mini",
			DisplayName: "o4 Mini",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Fast reasoning model with advanced capabilities.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-o4-mini-high",
			Name:        "o4-mini-high",
			DisplayName: "o4 Mini High",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Higher capability version of o4-mini.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-gpt-4-turbo",
			Name:        "gpt-4-turbo",
			DisplayName: "GPT-4 Turbo",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Previous high-intelligence model.",
			Temperature: 0.7,
		},
		{
			ID:          "elia-gpt-3.5-turbo",
			Name:        "gpt-3.5-turbo",
			DisplayName: "GPT-3.5 Turbo",
			Provider:    "OpenAI",
			Product:     "ChatGPT",
			Description: "Fast & inexpensive model for simple tasks.",
			Temperature: 0.7,
		},
	}
}

func anthropicModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:          "elia-claude-opus-4",
			Name:        "claude-opus-4-20250514",
			DisplayName: "Claude Opus 4",
			Provider:    "Anthropic",
			Product:     "Claude 4",
			Description: "Most intelligent model for building agents and coding.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-sonnet-4",
			Name:        "claude-sonnet-4-20250514",
			DisplayName: "Claude Sonnet 4",
			Provider:    "Anthropic",
			Product:     "Claude 4",
			Description: "Best combination of speed and intelligence.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-7-sonnet",
			Name:        "claude-3-7-sonnet-20250219",
			DisplayName: "Claude 3.7 Sonnet",
			Provider:    "Anthropic",
			Product:     "Claude 3.7",
			Description: "Most intelligent Claude 3 series model.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-5-sonnet",
			Name:        "claude-3-5-sonnet-20241022",
			DisplayName: "Claude 3.5 Sonnet (Latest)",
			Provider:    "Anthropic",
			Product:     "Claude 3.5",
			Description: "Anthropic's most intelligent model - latest version.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-5-sonnet-20240620",
			Name:        "claude-3-5-sonnet-20240620",
			DisplayName: "Claude 3.5 Sonnet (Jun 2024)",
			Provider:    "Anthropic",
			Product:     "Claude 3.5",
			Description: "Anthropic's most intelligent model - earlier version.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-5-haiku",
			Name:        "claude-3-5-haiku-20241022",
			DisplayName: "Claude 3.5 Haiku",
			Provider:    "Anthropic",
			Product:     "Claude 3.5",
			Description: "Fastest model with near-frontier intelligence.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-opus",
			Name:        "claude-3-opus-20240229",
			DisplayName: "Claude 3 Opus",
			Provider:    "Anthropic",
			Product:     "Claude 3",
			Description: "Excels at writing and complex tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-sonnet",
			Name:        "claude-3-sonnet-20240229",
			DisplayName: "Claude 3 Sonnet",
			Provider:    "Anthropic",
			Product:     "Claude 3",
			Description: "Ideal balance of intelligence and speed.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-claude-3-haiku",
			Name:        "claude-3-haiku-20240307",
			DisplayName: "Claude 3 Haiku",
			Provider:    "Anthropic",
			Product:     "Claude 3",
			Description: "Fastest and most compact for quick responses.",
			Temperature: 1.0,
		},
	}
}

func googleModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:          "elia-gemini-2.5-pro",
			Name:        "gemini/gemini-2.5-pro",
			DisplayName: "Gemini 2.5 Pro",
			Provider:    "Google",
			Product:     "Gemini",
			Description: "Most capable Gemini model for complex reasoning tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-gemini-2.5-flash",
			Name:        "gemini/gemini-2.5-flash",
			DisplayName: "Gemini 2.5 Flash",
			Provider:    "Google",
			Product:     "Gemini",
			Description: "Fast and versatile model for a wide range of tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-gemini-2.5-flash-lite",
			Name:        "gemini/gemini-2.5-flash-lite",
			DisplayName: "Gemini 2.5 Flash Lite",
			Provider:    "Google",
			Product:     "Gemini",
			Description: "Most efficient model for high-frequency, simple tasks.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-gemini-2.0-flash",
			Name:        "gemini/gemini-2.0-flash",
			DisplayName: "Gemini 2.0 Flash",
			Provider:    "Google",
			Product:     "Gemini",
			Description: "Fast multimodal model with native tool use.",
			Temperature: 1.0,
		},
		{
			ID:          "elia-gemini-2.0-flash-lite",
			Name:        "gemini/gemini-2.0-flash-lite",
			DisplayName: "Gemini 2.0 Flash Lite",
			Provider:    "Google",
			Product:     "Gemini",
			Description: "Lightweight model for simple, high-volume tasks.",
			Temperature: 1.0,
		},
	}
}
