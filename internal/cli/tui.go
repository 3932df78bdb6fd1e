// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/config"
	"github.com/jeranaias/elia-tui/internal/llm"
	"github.com/jeranaias/elia-tui/internal/session"
	"github.com/jeranaias/elia-tui/internal/ui/chat"
	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

// ErrNotInteractive is returned when the TUI is started without a terminal.
var ErrNotInteractive = errors.New("elia needs an interactive terminal; use a subcommand when piping")

// =============================================================================
// INTERACTIVE SESSION
// =============================================================================

// runTUI wires the application together and runs the chat interface until
// the user quits.
func runTUI(cmd *cobra.Command, opts *rootOptions, args []string) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNotInteractive
	}

	return withApp(cmd, opts, func(a *app) error {
		logger := a.logger
		themes := loadThemes(a, logger)

		client := llm.NewClient(llm.WithLogger(logger))
		presenter := chat.NewProgramPresenter()

		titles := llm.NewTitleGenerator(client, a.store,
			llm.WithTitleLogger(logger),
			llm.OnTitle(presenter.TitleUpdated),
		)
		defer titles.Close()

		orchestrator := session.NewOrchestrator(a.store, a.runtime, presenter,
			session.WithTitleRequester(titles),
			session.WithLogger(logger),
		)
		responder := session.NewResponder(a.store, client, logger)

		mailbox := presenter.ConfigMailbox()
		handle := a.runtime.Subscribe(mailbox.Handler())
		defer mailbox.Close()
		defer a.runtime.Unsubscribe(handle)

		if watcher := watchConfig(a, logger); watcher != nil {
			defer watcher.Close()
		}

		model := chat.New(chat.Options{
			Launcher:      orchestrator,
			Replier:       responder,
			Store:         a.store,
			Config:        a.runtime,
			Models:        a.catalog,
			Presenter:     presenter,
			Themes:        themes,
			ThemeName:     a.config.Theme,
			CodeTheme:     a.config.MessageCodeTheme,
			StartupPrompt: strings.TrimSpace(strings.Join(args, " ")),
			Logger:        logger,
		})

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		presenter.Bind(program)

		logger.Info("starting interface",
			zap.Object("model", a.runtime.Current().SelectedModel),
			zap.String("theme", a.config.Theme))
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("interface failed: %w", err)
		}
		return nil
	})
}

// loadThemes merges the user's theme files over the built-in themes.
func loadThemes(a *app, logger *zap.Logger) *styles.Registry {
	user, problems := styles.LoadUserThemes(styles.ThemeDir(filepath.Dir(a.configPath)))
	for _, p := range problems {
		logger.Warn("skipping theme", zap.Error(p))
	}
	registry := styles.NewRegistry(user)
	if _, ok := registry.Lookup(a.config.Theme); !ok {
		logger.Warn("unknown theme, using default",
			zap.String("theme", a.config.Theme), zap.String("default", styles.DefaultThemeName))
	}
	return registry
}

// watchConfig reloads the system prompt when the config file changes. The
// interface still works without it, so failures are only logged.
func watchConfig(a *app, logger *zap.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(a.configPath, config.DefaultDebounce, logger,
		func(cfg *config.LaunchConfig, warnings []error) {
			for _, w := range warnings {
				logger.Warn("configuration problem", zap.Error(w))
			}
			if err := a.runtime.SetSystemPrompt(cfg.SystemPrompt); err != nil {
				logger.Error("failed to apply reloaded config", zap.Error(err))
			}
		})
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := watcher.Start(); err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
		_ = watcher.Close()
		return nil
	}
	return watcher
}
