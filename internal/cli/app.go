// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/catalog"
	"github.com/jeranaias/elia-tui/internal/config"
	"github.com/jeranaias/elia-tui/internal/logging"
	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/runtimecfg"
	"github.com/jeranaias/elia-tui/internal/storage"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath   string
	databasePath string
	model        string
	verbose      bool
}

// =============================================================================
// APPLICATION ENVIRONMENT
// =============================================================================

// app is everything a command needs, built from the config file and flags.
type app struct {
	configPath string
	config     *config.LaunchConfig
	logger     *zap.Logger
	catalog    *catalog.Catalog
	runtime    *runtimecfg.Manager
	store      *storage.SQLiteStore
}

// openApp loads the configuration, builds the model catalog and runtime
// configuration, and opens the chat database. Problems that do not stop
// startup are logged and printed to warnOut.
func openApp(ctx context.Context, opts *rootOptions, warnOut io.Writer) (_ *app, err error) {
	configPath := opts.configPath
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return nil, configError{err}
		}
	}

	cfg, warnings, err := config.Load(configPath)
	if err != nil {
		return nil, configError{err}
	}

	dataDir, err := storage.DataDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine data directory: %w", err)
	}
	logger, err := logging.New(logging.Options{Path: logging.PathIn(dataDir), Verbose: opts.verbose})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = logger.Sync()
		}
	}()

	a := &app{configPath: configPath, config: cfg, logger: logger}
	logger.Info("configuration loaded", zap.String("path", configPath), zap.Int("user_models", len(cfg.Models)))

	cat, problems := catalog.New(model.BuiltinModels(), cfg.Models)
	for _, w := range append(warnings, problems...) {
		logger.Warn("configuration problem", zap.Error(w))
		fmt.Fprintln(warnOut, WarningStyle.Render("warning: "+w.Error()))
	}
	a.catalog = cat

	selected, err := a.initialModel(opts.model, warnOut)
	if err != nil {
		return nil, err
	}
	a.runtime, err = runtimecfg.NewManager(cat, runtimecfg.RuntimeConfig{
		SelectedModel: selected,
		SystemPrompt:  cfg.SystemPrompt,
	}, logger)
	if err != nil {
		return nil, err
	}

	dbPath := opts.databasePath
	if dbPath == "" {
		if dbPath, err = storage.DefaultPath(); err != nil {
			return nil, fmt.Errorf("could not determine database path: %w", err)
		}
	}
	a.store, err = storage.Open(ctx, dbPath, storage.Options{Resolver: cat.Resolve, Logger: logger})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// initialModel resolves the model selected at startup. An unknown --model is
// an error; an unknown default_model falls back to the built-in default.
func (a *app) initialModel(flag string, warnOut io.Writer) (model.ModelConfig, error) {
	if flag != "" {
		return a.catalog.Resolve(flag)
	}

	selected, err := a.catalog.Resolve(a.config.DefaultModel)
	if err == nil {
		return selected, nil
	}
	a.logger.Warn("default model not found, using built-in default",
		zap.String("default_model", a.config.DefaultModel), zap.Error(err))
	fmt.Fprintln(warnOut, WarningStyle.Render(fmt.Sprintf(
		"warning: default_model %q not found, using %s", a.config.DefaultModel, config.DefaultModel)))
	return a.catalog.Resolve(config.DefaultModel)
}

// Close releases the database and flushes the log.
func (a *app) Close() error {
	var err error
	if a.store != nil {
		err = multierr.Append(err, a.store.Close())
	}
	return multierr.Append(err, a.logger.Sync())
}

// resolveChatID expands a unique ID prefix, as printed by "elia chats".
func (a *app) resolveChatID(ctx context.Context, prefix string) (string, error) {
	const op = "cli.resolveChatID"

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", apperr.InvalidArgument(op, "chat ID must not be empty")
	}

	chats, err := a.store.ListChats(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, c := range chats {
		if c.ID == prefix {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, prefix) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", apperr.NotFound(op, "no chat with ID %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", apperr.InvalidArgument(op, "chat ID %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
