// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtinOrder is the cycling order of the built-in palettes.
var builtinOrder = []string{
	"nebula", "cobalt", "twilight", "hacker", "alpine",
	"galaxy", "nautilus", "monokai", "textual",
}

// =============================================================================
// USER THEMES
// =============================================================================

// ThemeDir returns the directory user themes are read from.
func ThemeDir(configDir string) string {
	return filepath.Join(configDir, "themes")
}

// LoadUserThemes reads every *.yaml and *.yml file in dir as a Palette.
// A file that fails to parse or validate is skipped and reported; a missing
// directory yields no themes and no problems. A file without a name takes
// its base name.
func LoadUserThemes(dir string) ([]Palette, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("read theme directory: %w", err)}
	}

	var themes []Palette
	var problems []error
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		p, err := loadPalette(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		if err := p.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		themes = append(themes, p.withDefaults())
	}
	return themes, problems
}

func loadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, err
	}
	// Themes default to dark, matching every built-in.
	p := Palette{Dark: true}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("parse theme: %w", err)
	}
	return p, nil
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the available palettes. It is immutable after construction.
type Registry struct {
	palettes map[string]Palette
	names    []string
}

// NewRegistry merges user palettes over the built-ins. A user palette named
// like a built-in replaces it in place.
func NewRegistry(user []Palette) *Registry {
	r := &Registry{
		palettes: BuiltinPalettes(),
		names:    slices.Clone(builtinOrder),
	}

	var added []string
	for _, p := range user {
		if _, exists := r.palettes[p.Name]; !exists {
			added = append(added, p.Name)
		}
		r.palettes[p.Name] = p
	}
	slices.Sort(added)
	r.names = append(r.names, slices.Compact(added)...)
	return r
}

// Lookup returns the palette called name.
func (r *Registry) Lookup(name string) (Palette, bool) {
	p, ok := r.palettes[name]
	return p, ok
}

// Resolve returns the palette called name, or nebula when there is none.
func (r *Registry) Resolve(name string) Palette {
	if p, ok := r.palettes[name]; ok {
		return p
	}
	return r.palettes[DefaultThemeName]
}

// Names lists the palettes: built-ins first, then user additions by name.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Next returns the palette after name in Names order, wrapping around.
// An unknown name starts from the beginning.
func (r *Registry) Next(name string) Palette {
	i := slices.Index(r.names, name)
	return r.palettes[r.names[(i+1)%len(r.names)]]
}
