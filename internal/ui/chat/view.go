// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	var help []key.Binding
	if m.screen == ScreenHome {
		body = m.renderHome()
		help = m.keyMap.HomeHelp()
	} else {
		body = m.viewport.View()
		help = m.keyMap.ChatHelp()
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusLine(),
		m.renderShortcuts(help),
	)

	if m.rename != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.rename.View())
	}
	return view
}

// =============================================================================
// HEADER AND FOOTER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("elia")

	var subtitle string
	if m.screen == ScreenChat {
		name := m.chat.Title
		if name == "" {
			name = "New chat"
		}
		subtitle = name + " · " + m.chat.Model.Label()
	} else {
		subtitle = m.config.SelectedModel.Label()
	}
	subtitle = util.TruncateWidth(subtitle, max(m.width-util.StringWidth("elia")-4, 1))

	return m.theme.Header.Width(m.width).Render(title + " " + m.theme.HeaderSubtitle.Render(subtitle))
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(max(m.width-2, 1)).Render(m.input.View())
}

// renderStatusLine shows the reply indicator, otherwise the latest error
// or notice.
func (m Model) renderStatusLine() string {
	switch {
	case m.status.IsActive():
		return m.status.View()
	case m.lastErr != nil:
		return m.theme.ErrorStyle.Render(util.TruncateWidth(util.SingleLine(m.lastErr.Error()), m.width))
	case m.notice != "":
		return m.theme.MutedStyle.Render(m.notice)
	}
	return ""
}

func (m Model) renderShortcuts(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// HOME SCREEN
// =============================================================================

func (m Model) renderHome() string {
	height := max(m.height-headerHeight-inputHeight-footerHeight, 1)

	lines := []string{
		"",
		m.theme.MutedStyle.Render("Start a new chat below, or pick one to continue."),
		"",
	}
	if len(m.chats) == 0 {
		lines = append(lines, m.theme.MutedStyle.Render("No chats yet."))
	}

	// Keep the selection on screen.
	visible := max(height-len(lines), 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	for i := start; i < len(m.chats) && i < start+visible; i++ {
		lines = append(lines, m.renderChatItem(i))
	}

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderChatItem(i int) string {
	c := m.chats[i]
	name := c.Title
	if name == "" {
		name = util.SingleLine(c.Preview)
	}
	if name == "" {
		name = "Untitled chat"
	}

	meta := c.CreatedAt.Local().Format("Jan 02 15:04") + "  " + c.ModelKey
	nameWidth := max(m.width-util.StringWidth(meta)-6, 8)
	line := m.theme.SessionTitle.Render(util.PadWidth(util.TruncateWidth(name, nameWidth), nameWidth)) +
		"  " + m.theme.SessionMeta.Render(meta)

	if i == m.selected {
		return m.theme.SessionItemSelected.Render(line)
	}
	return m.theme.SessionItem.Render(line)
}

// =============================================================================
// CONVERSATION
// =============================================================================

// renderMessages renders the open chat, including a reply still streaming.
func (m *Model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.chat.Messages {
		b.WriteString(m.renderMessage(msg.Role, msg.Content))
		b.WriteString("\n\n")
	}
	if m.partial != "" {
		b.WriteString(m.renderMessage(model.RoleAssistant, m.partial))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderMessage(role model.Role, content string) string {
	width := max(m.width-4, 10)
	label := m.theme.RoleLabel.Render(role.DisplayName())

	switch role {
	case model.RoleAssistant:
		if r := m.renderer(); r != nil {
			content = r.Render(content)
		}
		return label + "\n" + m.theme.AssistantBubble.Width(width).Render(content)
	case model.RoleSystem:
		return m.theme.SystemBubble.Width(width).Render(util.TruncateWidth(util.SingleLine(content), width-4))
	default:
		return label + "\n" + m.theme.UserBubble.Width(width).Render(content)
	}
}
