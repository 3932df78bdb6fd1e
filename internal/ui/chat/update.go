// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/ui/components"
	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

// Layout constants used when sizing the viewport.
const (
	headerHeight = 1
	inputHeight  = 3
	footerHeight = 2 // status line + shortcut bar
)

const opSend = "send"

// =============================================================================
// MAIN UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startupMsg:
		return m, m.submitPrompt(msg.prompt)

	case ChatsLoadedMsg:
		m.chats = msg.Chats
		if m.selected >= len(m.chats) {
			m.selected = max(len(m.chats)-1, 0)
		}
		return m, nil

	case ChatPresentedMsg:
		m.launching = false
		m.enterChat(msg.Chat)
		return m, m.startReply()

	case launchFailedMsg:
		m.launching = false
		m.status.Stop()
		if m.input.Value() == "" {
			m.input.SetValue(msg.prompt)
		}
		m.showError(ErrorMsg{Op: "launch", Err: msg.err})
		return m, nil

	case ChatOpenedMsg:
		m.enterChat(msg.Chat)
		return m, nil

	case MessageSentMsg:
		if msg.Chat.ID != m.chat.ID {
			return m, nil
		}
		m.adoptChat(msg.Chat)
		m.refreshViewport()
		return m, m.startReply()

	case TitleUpdatedMsg:
		m.applyTitle(msg.ChatID, msg.Title)
		return m, nil

	case StreamStartMsg:
		m.logger.Debug("reply started", zap.String("chat_id", msg.ChatID))
		return m, nil

	case StreamTokenMsg:
		return m.handleStreamToken(msg), nil

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg), nil

	case StreamErrorMsg:
		return m.handleStreamError(msg), nil

	case ConfigChangedMsg:
		m.config = msg.Config
		return m, nil

	case ErrorMsg:
		if msg.Op == opSend {
			m.streaming = false
			m.status.Stop()
		}
		m.showError(msg)
		return m, nil

	case components.RenameSubmittedMsg:
		m.rename = nil
		return m, m.setTitle(msg.ChatID, msg.Title)

	case components.RenameCancelledMsg:
		m.rename = nil
		return m, nil
	}

	// Spinner ticks and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.cancelMgr.stop()
		return m, tea.Quit
	}

	if m.rename != nil {
		modal, cmd := m.rename.Update(msg)
		m.rename = &modal
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.NextTheme):
		m.applyTheme(m.themes.Next(m.themeName))
		return m, nil

	case key.Matches(msg, m.keyMap.NextModel):
		m.selectNextModel()
		return m, nil

	case key.Matches(msg, m.keyMap.Back):
		return m.handleBack()

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()
	}

	if m.screen == ScreenHome {
		switch {
		case key.Matches(msg, m.keyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keyMap.Down):
			if m.selected < len(m.chats)-1 {
				m.selected++
			}
			return m, nil
		}
	} else {
		switch {
		case key.Matches(msg, m.keyMap.Rename):
			if m.chat.Persisted() {
				modal := components.NewRenameModal(m.theme, m.chat.ID, m.chat.Title)
				m.rename = &modal
			}
			return m, nil
		case key.Matches(msg, m.keyMap.Up, m.keyMap.Down, m.keyMap.PageUp, m.keyMap.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleBack stops a reply in flight, otherwise leaves the chat screen.
func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if m.streaming {
		m.cancelMgr.stop()
		return m, nil
	}
	if m.screen == ScreenChat {
		m.screen = ScreenHome
		m.chat = model.ChatData{}
		m.partial = ""
		m.lastErr = nil
		m.notice = ""
		m.input.Reset()
		return m, m.loadChats()
	}
	return m, nil
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	content := m.input.Value()

	if m.screen == ScreenHome {
		if strings.TrimSpace(content) == "" {
			if len(m.chats) > 0 && m.store != nil {
				return m, m.openChat(m.chats[m.selected].ID)
			}
			return m, nil
		}
		return m, m.submitPrompt(content)
	}

	if m.streaming || strings.TrimSpace(content) == "" {
		return m, nil
	}
	m.input.Reset()
	m.lastErr = nil
	m.streaming = true
	return m, tea.Batch(m.status.Start(), m.send(content))
}

// submitPrompt launches a new chat with the selected model.
func (m *Model) submitPrompt(prompt string) tea.Cmd {
	if m.launching || strings.TrimSpace(prompt) == "" {
		return nil
	}
	m.launching = true
	m.lastErr = nil
	m.input.Reset()
	return tea.Batch(m.status.Start(), m.launch(prompt, m.config.SelectedModel))
}

// =============================================================================
// STREAM HANDLING
// =============================================================================

func (m Model) handleStreamToken(msg StreamTokenMsg) Model {
	if !m.streaming || msg.ChatID != m.chat.ID {
		return m
	}
	if msg.IsFirst {
		m.status.Responding()
	}
	m.partial += msg.Token
	m.refreshViewport()
	return m
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) Model {
	if msg.Chat.ID != m.chat.ID {
		return m
	}
	m.cancelMgr.stop()
	m.streaming = false
	m.partial = ""
	m.status.Stop()
	m.adoptChat(msg.Chat)
	m.refreshViewport()
	return m
}

func (m Model) handleStreamError(msg StreamErrorMsg) Model {
	if msg.ChatID != m.chat.ID {
		return m
	}
	m.cancelMgr.stop()
	m.streaming = false
	m.partial = ""
	m.status.Stop()
	if errors.Is(msg.Err, context.Canceled) {
		m.notice = "Response cancelled"
	} else {
		m.showError(ErrorMsg{Op: "reply", Err: msg.Err})
	}
	m.refreshViewport()
	return m
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m *Model) enterChat(chat model.ChatData) {
	m.screen = ScreenChat
	m.chat = chat
	m.partial = ""
	m.notice = ""
	m.lastErr = nil
	m.refreshViewport()
}

// adoptChat replaces the open chat with a newer copy, keeping a title that
// arrived while the copy was in flight.
func (m *Model) adoptChat(chat model.ChatData) {
	if chat.Title == "" && chat.ID == m.chat.ID {
		chat.Title = m.chat.Title
	}
	m.chat = chat
}

func (m *Model) applyTitle(chatID, title string) {
	if m.chat.ID == chatID {
		m.chat.Title = title
	}
	for i := range m.chats {
		if m.chats[i].ID == chatID {
			m.chats[i].Title = title
		}
	}
}

func (m *Model) selectNextModel() {
	if m.models == nil {
		return
	}
	next := m.models.Next(m.config.SelectedModel.LookupKey())
	if err := m.cfg.SelectModel(next.LookupKey()); err != nil {
		m.showError(ErrorMsg{Op: "select model", Err: err})
		return
	}
	m.config = m.cfg.Current()
	m.notice = "Model: " + next.Label()
}

func (m *Model) applyTheme(p styles.Palette) {
	m.themeName = p.Name
	m.theme = styles.NewTheme(p)
	m.status.SetTheme(m.theme)
	m.applyInputTheme()
	m.markdown = nil
	m.notice = "Theme: " + p.Name
	m.refreshViewport()
}

func (m *Model) applyInputTheme() {
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
}

func (m *Model) showError(err ErrorMsg) {
	m.lastErr = err
	m.logger.Warn("operation failed", zap.String("op", err.Op), zap.Error(err.Err))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-inputHeight-footerHeight, 1)
	m.markdown = nil
	m.refreshViewport()
}

// renderer returns a Markdown renderer for the current width and theme,
// building one when either has changed.
func (m *Model) renderer() *components.MarkdownRenderer {
	if m.markdown != nil {
		return m.markdown
	}
	r, err := components.NewMarkdownRenderer(m.codeTheme, m.theme.IsDark, m.width-6)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	m.markdown = r
	return r
}

func (m *Model) refreshViewport() {
	if m.width == 0 {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}
