// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/runtimecfg"
	"github.com/jeranaias/elia-tui/internal/storage"
	"github.com/jeranaias/elia-tui/internal/ui/components"
	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

// storeTimeout bounds each storage call made from the UI.
const storeTimeout = 10 * time.Second

// =============================================================================
// COLLABORATORS
// =============================================================================

// Launcher starts new chats. *session.Orchestrator satisfies it.
type Launcher interface {
	LaunchChat(ctx context.Context, prompt string, m model.ModelConfig) (model.ChatData, error)
}

// ConfigManager exposes the runtime configuration. *runtimecfg.Manager
// satisfies it.
type ConfigManager interface {
	Current() runtimecfg.RuntimeConfig
	SelectModel(key string) error
}

// ModelCycler picks the model after a given one. *catalog.Catalog satisfies it.
type ModelCycler interface {
	Next(key string) model.ModelConfig
}

// ChatBrowser reads and names stored chats. *storage.SQLiteStore satisfies it.
type ChatBrowser interface {
	ListChats(ctx context.Context) ([]storage.ChatSummary, error)
	GetChat(ctx context.Context, chatID string) (model.ChatData, error)
	SetTitle(ctx context.Context, chatID, title string) error
}

// Options wires a Model to the rest of the application.
type Options struct {
	Launcher  Launcher
	Replier   Replier
	Store     ChatBrowser
	Config    ConfigManager
	Models    ModelCycler
	Presenter *ProgramPresenter

	Themes    *styles.Registry
	ThemeName string
	CodeTheme string

	// StartupPrompt, when set, is launched as soon as the program starts.
	StartupPrompt string

	Logger *zap.Logger
}

// =============================================================================
// SCREEN STATE
// =============================================================================

// Screen identifies what the model is showing.
type Screen int

const (
	ScreenHome Screen = iota // Prompt and recent chats
	ScreenChat               // A single conversation
)

// startupMsg launches the startup prompt once the program is running.
type startupMsg struct {
	prompt string
}

// launchFailedMsg reports that a chat could not be launched.
type launchFailedMsg struct {
	prompt string
	err    error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole application.
type Model struct {
	screen Screen
	keyMap KeyMap

	// Styling
	themes    *styles.Registry
	themeName string
	theme     *styles.Theme
	codeTheme string
	markdown  *components.MarkdownRenderer

	// Dimensions
	width  int
	height int

	// UI Components
	input    textinput.Model
	viewport viewport.Model
	status   components.ResponseStatus
	rename   *components.RenameModal

	// Home screen
	chats    []storage.ChatSummary
	selected int

	// Current conversation
	chat      model.ChatData
	partial   string
	streaming bool
	launching bool

	config  runtimecfg.RuntimeConfig
	notice  string
	lastErr error

	// Collaborators
	launcher  Launcher
	store     ChatBrowser
	cfg       ConfigManager
	models    ModelCycler
	runner    *StreamRunner
	cancelMgr *cancelManager
	logger    *zap.Logger

	startupPrompt string
}

// New creates the application model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	themes := opts.Themes
	if themes == nil {
		themes = styles.NewRegistry(nil)
	}
	presenter := opts.Presenter
	if presenter == nil {
		presenter = NewProgramPresenter()
	}

	palette := themes.Resolve(opts.ThemeName)
	theme := styles.NewTheme(palette)

	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	m := Model{
		screen:        ScreenHome,
		keyMap:        DefaultKeyMap(),
		themes:        themes,
		themeName:     palette.Name,
		theme:         theme,
		codeTheme:     opts.CodeTheme,
		input:         input,
		viewport:      viewport.New(0, 0),
		status:        components.NewResponseStatus(theme),
		config:        opts.Config.Current(),
		launcher:      opts.Launcher,
		store:         opts.Store,
		cfg:           opts.Config,
		models:        opts.Models,
		runner:        NewStreamRunner(presenter, opts.Replier),
		cancelMgr:     &cancelManager{},
		logger:        logger.Named("ui"),
		startupPrompt: opts.StartupPrompt,
	}
	m.applyInputTheme()
	return m
}

// Init loads the recent chats and launches the startup prompt, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadChats()}
	if m.startupPrompt != "" {
		prompt := m.startupPrompt
		cmds = append(cmds, func() tea.Msg { return startupMsg{prompt: prompt} })
	}
	return tea.Batch(cmds...)
}

// Screen returns the screen being shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Chat returns the open conversation.
func (m Model) Chat() model.ChatData {
	return m.chat
}

// ThemeName returns the active theme.
func (m Model) ThemeName() string {
	return m.themeName
}

// Streaming reports whether a reply is in progress.
func (m Model) Streaming() bool {
	return m.streaming
}

// LastError returns the most recent error shown to the user.
func (m Model) LastError() error {
	return m.lastErr
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadChats() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		chats, err := store.ListChats(ctx)
		if err != nil {
			return ErrorMsg{Op: "list chats", Err: err}
		}
		return ChatsLoadedMsg{Chats: chats}
	}
}

func (m Model) openChat(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		chat, err := store.GetChat(ctx, id)
		if err != nil {
			return ErrorMsg{Op: "open chat", Err: err}
		}
		return ChatOpenedMsg{Chat: chat}
	}
}

// launch runs LaunchChat. On success the presenter delivers the chat, so
// the command itself produces no message.
func (m Model) launch(prompt string, mc model.ModelConfig) tea.Cmd {
	launcher := m.launcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, err := launcher.LaunchChat(ctx, prompt, mc); err != nil {
			return launchFailedMsg{prompt: prompt, err: err}
		}
		return nil
	}
}

func (m Model) send(content string) tea.Cmd {
	replier, chat := m.runner.replier, m.chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		updated, err := replier.Send(ctx, chat, content)
		if err != nil {
			return ErrorMsg{Op: opSend, Err: err}
		}
		return MessageSentMsg{Chat: updated}
	}
}

func (m Model) setTitle(chatID, title string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.SetTitle(ctx, chatID, title); err != nil {
			return ErrorMsg{Op: "rename", Err: err}
		}
		return TitleUpdatedMsg{ChatID: chatID, Title: title}
	}
}

// startReply streams the assistant's answer to the open chat.
func (m *Model) startReply() tea.Cmd {
	m.streaming = true
	m.partial = ""
	ctx := m.cancelMgr.begin()
	runner, chat := m.runner, m.chat
	return tea.Batch(
		m.status.Start(),
		func() tea.Msg {
			runner.Run(ctx, chat)
			return nil
		},
	)
}
