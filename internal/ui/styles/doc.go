// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for elia.

# Palettes (palette.go)

A Palette is a named set of colors. elia ships nebula, cobalt, twilight,
hacker, alpine, galaxy, nautilus, monokai and textual. Users add or override
palettes with YAML files in <config dir>/themes:

	name: dusk
	dark: true
	primary: "#7aa2f7"
	secondary: "#bb9af7"
	accent: "#e0af68"
	background: "#1a1b26"
	surface: "#24283b"
	error: "#f7768e"
	success: "#9ece6a"
	warning: "#e0af68"

# Registry (registry.go)

The Registry merges user palettes over the built-ins. Resolving an unknown
name yields nebula:

	user, problems := styles.LoadUserThemes(styles.ThemeDir(configDir))
	reg := styles.NewRegistry(user)
	palette := reg.Resolve(cfg.Theme)

# Theme (theme.go)

A Theme turns a Palette into lipgloss styles for the terminal's color
profile:

	theme := styles.NewTheme(palette)
	fmt.Println(theme.HeaderTitle.Render("elia"))
*/
package styles
