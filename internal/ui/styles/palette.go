// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultThemeName is used when the configured theme is unknown.
const DefaultThemeName = "nebula"

// isHexColor reports whether s is "#rgb" or "#rrggbb". colorful.Hex stops
// at the first non-hex digit, so length and digits are checked first.
func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if strings.Trim(s[1:], "0123456789abcdefABCDEF") != "" {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// =============================================================================
// PALETTE TYPE
// =============================================================================

// Palette is a named color scheme. Colors are "#rrggbb" or "#rgb".
type Palette struct {
	Name       string `yaml:"name"`
	Dark       bool   `yaml:"dark"`
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"`
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Error      string `yaml:"error"`
	Success    string `yaml:"success"`
	Warning    string `yaml:"warning"`
}

// Validate reports the first problem with p.
func (p Palette) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("theme has no name")
	}
	for _, c := range []struct{ field, value string }{
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"accent", p.Accent},
		{"background", p.Background},
		{"surface", p.Surface},
		{"error", p.Error},
		{"success", p.Success},
		{"warning", p.Warning},
	} {
		if c.value == "" && c.field != "primary" {
			continue
		}
		if !isHexColor(c.value) {
			return fmt.Errorf("theme %q: %s %q is not a hex color", p.Name, c.field, c.value)
		}
	}
	return nil
}

// withDefaults fills unset optional colors from the primary and the
// default palette.
func (p Palette) withDefaults() Palette {
	base := builtinPalettes[DefaultThemeName]
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&p.Secondary, p.Primary)
	fill(&p.Accent, p.Primary)
	fill(&p.Error, base.Error)
	fill(&p.Success, base.Success)
	fill(&p.Warning, base.Warning)
	if p.Dark {
		fill(&p.Background, base.Background)
		fill(&p.Surface, base.Surface)
	} else {
		fill(&p.Background, "#ffffff")
		fill(&p.Surface, "#f2f2f2")
	}
	return p
}

// Text returns the foreground color readable on the palette's background.
func (p Palette) Text() lipgloss.Color {
	if p.Dark {
		return lipgloss.Color("#e0e0e0")
	}
	return lipgloss.Color("#1e1e1e")
}

// Muted returns a de-emphasised foreground color.
func (p Palette) Muted() lipgloss.Color {
	if p.Dark {
		return lipgloss.Color("#8a8a8a")
	}
	return lipgloss.Color("#6b6b6b")
}

// =============================================================================
// BUILT-IN PALETTES
// =============================================================================

var builtinPalettes = map[string]Palette{
	"nebula": {
		Name:       "nebula",
		Dark:       true,
		Primary:    "#4e78c4",
		Secondary:  "#f39c12",
		Accent:     "#8e44ad",
		Background: "#0e1726",
		Surface:    "#17202a",
		Error:      "#e74c3c",
		Success:    "#2ecc71",
		Warning:    "#f1c40f",
	},
	"cobalt": {
		Name:       "cobalt",
		Dark:       true,
		Primary:    "#334d5c",
		Secondary:  "#66b2ff",
		Accent:     "#ffaa22",
		Background: "#001b33",
		Surface:    "#002240",
		Error:      "#e63946",
		Success:    "#4caf50",
		Warning:    "#ffcc00",
	},
	"twilight": {
		Name:       "twilight",
		Dark:       true,
		Primary:    "#367588",
		Secondary:  "#5f9ea0",
		Accent:     "#ffa62b",
		Background: "#191970",
		Surface:    "#3b3b6d",
		Error:      "#ff6347",
		Success:    "#00fa9a",
		Warning:    "#ffd700",
	},
	"hacker": {
		Name:       "hacker",
		Dark:       true,
		Primary:    "#00ff00",
		Secondary:  "#32cd32",
		Accent:     "#b2ff00",
		Background: "#000000",
		Surface:    "#0a0a0a",
		Error:      "#ff0000",
		Success:    "#00ff00",
		Warning:    "#ffff00",
	},
	"alpine": {
		Name:       "alpine",
		Dark:       true,
		Primary:    "#4a90e2",
		Secondary:  "#81a1c1",
		Accent:     "#d08770",
		Background: "#2e3440",
		Surface:    "#3b4252",
		Error:      "#bf616a",
		Success:    "#a3be8c",
		Warning:    "#ebcb8b",
	},
	"galaxy": {
		Name:       "galaxy",
		Dark:       true,
		Primary:    "#8a2be2",
		Secondary:  "#a0522d",
		Accent:     "#00bfff",
		Background: "#0f0f1f",
		Surface:    "#1e1e3f",
		Error:      "#ff4500",
		Success:    "#00fa9a",
		Warning:    "#ffd700",
	},
	"nautilus": {
		Name:       "nautilus",
		Dark:       true,
		Primary:    "#0077be",
		Secondary:  "#20b2aa",
		Accent:     "#ff8c00",
		Background: "#001f3f",
		Surface:    "#003366",
		Error:      "#ff6b6b",
		Success:    "#3cb371",
		Warning:    "#ffd700",
	},
	"monokai": {
		Name:       "monokai",
		Dark:       true,
		Primary:    "#f92672",
		Secondary:  "#66d9ef",
		Accent:     "#a6e22e",
		Background: "#272822",
		Surface:    "#3e3d32",
		Error:      "#f92672",
		Success:    "#a6e22e",
		Warning:    "#fd971f",
	},
	"textual": {
		Name:       "textual",
		Dark:       true,
		Primary:    "#004578",
		Secondary:  "#ffa62b",
		Accent:     "#0178d4",
		Background: "#121212",
		Surface:    "#1e1e1e",
		Error:      "#ba3c5b",
		Success:    "#4ebf71",
		Warning:    "#ffa62b",
	},
}

// BuiltinPalettes returns a copy of the palettes shipped with elia.
func BuiltinPalettes() map[string]Palette {
	out := make(map[string]Palette, len(builtinPalettes))
	for name, p := range builtinPalettes {
		out[name] = p
	}
	return out
}
