// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "elia [prompt...]",
		Short: "A terminal client for chatting with large language models",
		Long: `elia is a keyboard-driven chat client for OpenAI, Anthropic, Gemini and
any OpenAI-compatible endpoint.

Run without arguments to open the chat interface. Arguments are joined into a
prompt that starts a new chat right away.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.toml (default $XDG_CONFIG_HOME/elia/config.toml)")
	flags.StringVar(&opts.databasePath, "database", "", "path to the chat database (default $XDG_DATA_HOME/elia/elia.sqlite)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "write debug logs")
	root.Flags().StringVarP(&opts.model, "model", "m", "", "model to chat with (id or name)")

	root.AddCommand(
		newModelsCommand(opts),
		newChatsCommand(opts),
		newRenameCommand(opts),
		newExportCommand(opts),
		newResetCommand(opts),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return ExitCode(err)
	}
	return ExitSuccess
}

// withApp opens the application environment for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) (err error) {
	a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
