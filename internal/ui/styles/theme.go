// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	Palette Palette

	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	RoleLabel       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// RESPONSE STATUS STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ThinkingTime lipgloss.Style

	// ==========================================================================
	// CHAT LIST STYLES
	// ==========================================================================

	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionTitle        lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// MODAL STYLES
	// ==========================================================================

	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
	ModalHint  lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
}

// NewTheme creates a theme for p with all styles configured.
func NewTheme(p Palette) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		Palette:      p.withDefaults(),
		IsDark:       p.Dark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette
	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	accent := lipgloss.Color(p.Accent)
	surface := lipgloss.Color(p.Surface)
	text := p.Text()
	muted := p.Muted()

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(surface).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(primary)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(muted).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 1).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(muted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(muted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(surface).
		Foreground(muted).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Background(surface).
		Foreground(accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Background(surface).
		Foreground(muted)

	// Response status
	t.Spinner = lipgloss.NewStyle().
		Foreground(accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(text)

	t.ThinkingTime = lipgloss.NewStyle().
		Foreground(muted)

	// Chat list
	t.SessionItem = lipgloss.NewStyle().
		PaddingLeft(2)

	t.SessionItemSelected = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(primary).
		PaddingLeft(1)

	t.SessionTitle = lipgloss.NewStyle().
		Foreground(text).
		Bold(true)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(muted)

	// Modal
	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(primary)

	t.ModalHint = lipgloss.NewStyle().
		Foreground(muted)

	// Status indicators
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Success)).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Error)).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Warning)).
		Bold(true)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(muted)
}
