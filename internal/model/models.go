// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/elia-tui/internal/apperr"
)

// Defaults applied when a user entry leaves the field unset.
const (
	DefaultTemperature = 1.0
	DefaultMaxRetries  = 0
)

// =============================================================================
// MODEL CONFIG TYPE
// =============================================================================

// ModelConfig is a provider-bound model definition.
type ModelConfig struct {
	// Name is the identifier the provider recognises (e.g. "gpt-4o").
	Name string `json:"name"`

	// ID is an optional local alias. Two entries may share a Name (say a
	// personal and a work key for the same model); the ID tells them apart.
	ID string `json:"id,omitempty"`

	DisplayName  string `json:"display_name,omitempty"`
	Provider     string `json:"provider,omitempty"`
	APIKey       Secret `json:"api_key,omitempty"`
	APIBase      string `json:"api_base,omitempty"`
	Organization string `json:"organization,omitempty"`
	Description  string `json:"description,omitempty"`
	Product      string `json:"product,omitempty"`

	Temperature float64 `json:"temperature"`
	MaxRetries  int     `json:"max_retries"`
}

// LookupKey returns the ID if set, otherwise the Name.
func (m ModelConfig) LookupKey() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name
}

// Label returns the name shown in listings.
func (m ModelConfig) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// Equal reports whether two configs describe the same model, secret included.
func (m ModelConfig) Equal(other ModelConfig) bool {
	return m == other
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The API key is never logged.
func (m ModelConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", m.LookupKey())
	enc.AddString("name", m.Name)
	if m.Provider != "" {
		enc.AddString("provider", m.Provider)
	}
	if m.APIBase != "" {
		enc.AddString("api_base", m.APIBase)
	}
	enc.AddBool("has_api_key", !m.APIKey.IsZero())
	return nil
}

// =============================================================================
// RAW ENTRIES AND VALIDATION
// =============================================================================

// RawModel is a model entry as written by the user, before validation.
// Pointer fields distinguish "unset" from an explicit zero.
type RawModel struct {
	Name         string   `toml:"name" yaml:"name" json:"name"`
	ID           string   `toml:"id" yaml:"id" json:"id"`
	DisplayName  string   `toml:"display_name" yaml:"display_name" json:"display_name"`
	Provider     string   `toml:"provider" yaml:"provider" json:"provider"`
	APIKey       string   `toml:"api_key" yaml:"api_key" json:"api_key"`
	APIBase      string   `toml:"api_base" yaml:"api_base" json:"api_base"`
	Organization string   `toml:"organization" yaml:"organization" json:"organization"`
	Description  string   `toml:"description" yaml:"description" json:"description"`
	Product      string   `toml:"product" yaml:"product" json:"product"`
	Temperature  *float64 `toml:"temperature" yaml:"temperature" json:"temperature"`
	MaxRetries   *int     `toml:"max_retries" yaml:"max_retries" json:"max_retries"`
}

// NewModelConfig validates raw and returns the immutable ModelConfig.
// Failures are apperr.ErrInvalidArgument.
func NewModelConfig(raw RawModel) (ModelConfig, error) {
	const op = "model.NewModelConfig"

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return ModelConfig{}, apperr.InvalidArgument(op, "model name must not be empty")
	}

	cfg := ModelConfig{
		Name:         name,
		ID:           strings.TrimSpace(raw.ID),
		DisplayName:  raw.DisplayName,
		Provider:     raw.Provider,
		APIKey:       NewSecret(raw.APIKey),
		Organization: raw.Organization,
		Description:  raw.Description,
		Product:      raw.Product,
		Temperature:  DefaultTemperature,
		MaxRetries:   DefaultMaxRetries,
	}

	if raw.APIBase != "" {
		u, err := url.Parse(raw.APIBase)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ModelConfig{}, apperr.InvalidArgument(op, "model %q: api_base %q is not an http(s) URL", name, raw.APIBase)
		}
		cfg.APIBase = strings.TrimSuffix(raw.APIBase, "/")
	}

	if raw.Temperature != nil {
		cfg.Temperature = *raw.Temperature
	}
	if raw.MaxRetries != nil {
		if *raw.MaxRetries < 0 {
			return ModelConfig{}, apperr.InvalidArgument(op, "model %q: max_retries must be non-negative, got %d", name, *raw.MaxRetries)
		}
		cfg.MaxRetries = *raw.MaxRetries
	}

	return cfg, nil
}
