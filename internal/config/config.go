// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/util"
)

// Defaults applied when the file and environment leave a setting unset.
const (
	DefaultModel            = "elia-gpt-4o-mini"
	DefaultSystemPrompt     = "You are a helpful assistant named Elia."
	DefaultMessageCodeTheme = "monokai"
	DefaultTheme            = "nebula"

	// EnvSystemPrompt overrides the built-in system prompt when the file does not set one.
	EnvSystemPrompt = "ELIA_SYSTEM_PROMPT"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// LaunchConfig is the configuration of the application at launch.
type LaunchConfig struct {
	// DefaultModel is the lookup key (id or name) of the model selected at startup.
	DefaultModel string `toml:"default_model"`

	// SystemPrompt opens every new chat.
	SystemPrompt string `toml:"system_prompt"`

	// MessageCodeTheme is the chroma style used for code blocks in messages.
	MessageCodeTheme string `toml:"message_code_theme"`

	// Theme is the UI theme name.
	Theme string `toml:"theme"`

	// Models are the user-defined model entries, in file order.
	Models []model.RawModel `toml:"models"`
}

// file mirrors LaunchConfig but defers decoding of each model so a bad entry
// can be skipped on its own.
type file struct {
	DefaultModel     string           `toml:"default_model"`
	SystemPrompt     string           `toml:"system_prompt"`
	MessageCodeTheme string           `toml:"message_code_theme"`
	Theme            string           `toml:"theme"`
	Models           []toml.Primitive `toml:"models"`
}

// Default returns a LaunchConfig with every default applied.
func Default() *LaunchConfig {
	cfg := &LaunchConfig{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills any unset field.
func (c *LaunchConfig) SetDefaults() {
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = os.Getenv(EnvSystemPrompt)
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.MessageCodeTheme == "" {
		c.MessageCodeTheme = DefaultMessageCodeTheme
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

// Clone returns a deep copy.
func (c *LaunchConfig) Clone() *LaunchConfig {
	out := *c
	out.Models = append([]model.RawModel(nil), c.Models...)
	return &out
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns $XDG_CONFIG_HOME/elia, falling back to ~/.config/elia.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "elia"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "elia"), nil
}

// DefaultPath returns the path to the TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config at path. A missing file yields the defaults.
//
// Problems that do not prevent startup (skipped model entries, unknown keys)
// are returned as warnings. A file that cannot be parsed, or settings that
// fail Validate, are an error.
func Load(path string) (*LaunchConfig, []error, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		return cfg, nil, cfg.Validate()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, warnings, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, warnings, nil
}

// Parse decodes TOML config data, applies defaults and validates the result.
func Parse(data []byte) (*LaunchConfig, []error, error) {
	var raw file
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	cfg := &LaunchConfig{
		DefaultModel:     strings.TrimSpace(raw.DefaultModel),
		SystemPrompt:     raw.SystemPrompt,
		MessageCodeTheme: strings.TrimSpace(raw.MessageCodeTheme),
		Theme:            strings.TrimSpace(raw.Theme),
	}

	var warnings []error
	skipped := false
	for i, prim := range raw.Models {
		var m model.RawModel
		if err := md.PrimitiveDecode(prim, &m); err != nil {
			warnings = append(warnings, fmt.Errorf("models[%d]: skipped: %w", i, err))
			skipped = true
			continue
		}
		cfg.Models = append(cfg.Models, m)
	}
	for _, key := range md.Undecoded() {
		if skipped && len(key) > 0 && key[0] == "models" {
			continue // keys of skipped entries are already reported
		}
		warnings = append(warnings, fmt.Errorf("unknown config key %q", key.String()))
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, warnings, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, warnings, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path.
// SECURITY: The file may hold API keys, so it is written 0600.
func Save(cfg *LaunchConfig, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# elia configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the settings that can be checked without the model catalog.
// Whether DefaultModel resolves is decided by the caller.
func (c *LaunchConfig) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.DefaultModel) == "" {
		errs = append(errs, ValidationError{
			Field:   "default_model",
			Message: "must not be empty",
		})
	}

	if _, ok := chromastyles.Registry[c.MessageCodeTheme]; !ok {
		errs = append(errs, ValidationError{
			Field:   "message_code_theme",
			Message: fmt.Sprintf("unknown style %q (available: %s)", c.MessageCodeTheme, strings.Join(chromastyles.Names(), ", ")),
		})
	}

	if strings.TrimSpace(c.Theme) == "" {
		errs = append(errs, ValidationError{
			Field:   "theme",
			Message: "must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
