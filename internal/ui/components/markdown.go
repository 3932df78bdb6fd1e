// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders message content as terminal Markdown. Fenced code
// is highlighted with the named Chroma style.
type MarkdownRenderer struct {
	renderer  *glamour.TermRenderer
	codeTheme string
	dark      bool
	width     int
}

// NewMarkdownRenderer creates a renderer wrapping at width columns.
func NewMarkdownRenderer(codeTheme string, dark bool, width int) (*MarkdownRenderer, error) {
	if width < 20 {
		width = 20
	}

	style := glamourstyles.LightStyleConfig
	if dark {
		style = glamourstyles.DarkStyleConfig
	}
	// Without the built-in chroma palette glamour falls back to Theme.
	style.CodeBlock.Chroma = nil
	style.CodeBlock.Theme = codeTheme

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{renderer: r, codeTheme: codeTheme, dark: dark, width: width}, nil
}

// Width returns the wrap width.
func (m *MarkdownRenderer) Width() int {
	return m.width
}

// CodeTheme returns the Chroma style used for code blocks.
func (m *MarkdownRenderer) CodeTheme() string {
	return m.codeTheme
}

// Render converts content to styled terminal output. Content that fails to
// render is returned unchanged.
func (m *MarkdownRenderer) Render(content string) string {
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
