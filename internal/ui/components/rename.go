// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

// MaxTitleLength limits what the rename field accepts.
const MaxTitleLength = 120

// RenameSubmittedMsg is sent when the user confirms a new title.
type RenameSubmittedMsg struct {
	ChatID string
	Title  string
}

// RenameCancelledMsg is sent when the user dismisses the dialog.
type RenameCancelledMsg struct{}

// =============================================================================
// RENAME MODAL
// =============================================================================

// RenameModal asks for a chat title.
type RenameModal struct {
	input  textinput.Model
	theme  *styles.Theme
	chatID string
}

// NewRenameModal creates a focused dialog prefilled with the current title.
func NewRenameModal(theme *styles.Theme, chatID, current string) RenameModal {
	in := textinput.New()
	in.Placeholder = "Enter a title..."
	in.CharLimit = MaxTitleLength
	in.Width = 48
	in.SetValue(current)
	in.Focus()
	return RenameModal{input: in, theme: theme, chatID: chatID}
}

// ChatID returns the chat being renamed.
func (m RenameModal) ChatID() string {
	return m.chatID
}

// Value returns the text entered so far.
func (m RenameModal) Value() string {
	return m.input.Value()
}

// Update handles key input. Enter submits a non-blank title and Esc cancels.
func (m RenameModal) Update(msg tea.Msg) (RenameModal, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return RenameCancelledMsg{} }
		case tea.KeyEnter:
			title := strings.TrimSpace(m.input.Value())
			if title == "" {
				return m, nil
			}
			id := m.chatID
			return m, func() tea.Msg { return RenameSubmittedMsg{ChatID: id, Title: title} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the dialog.
func (m RenameModal) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ModalTitle.Render("Rename chat"),
		"",
		m.input.View(),
		"",
		m.theme.ModalHint.Render("[enter] Save  [esc] Cancel"),
	)
	return m.theme.ModalBox.Render(body)
}
