// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/export"
	"github.com/jeranaias/elia-tui/internal/storage"
	"github.com/jeranaias/elia-tui/internal/util"
)

// =============================================================================
// MODELS
// =============================================================================

func newModelsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models you can chat with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				out := cmd.OutOrStdout()
				selected := a.runtime.Current().SelectedModel.LookupKey()

				models := a.catalog.Merged()
				keyWidth := 0
				for _, m := range models {
					keyWidth = max(keyWidth, util.StringWidth(m.LookupKey()))
				}

				fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Models (%d)", len(models))))
				for _, m := range models {
					marker := "  "
					if m.LookupKey() == selected {
						marker = "* "
					}
					provider := m.Provider
					if provider == "" {
						provider = "custom"
					}
					fmt.Fprintf(out, "%s%s  %s %s\n",
						marker,
						KeyStyle.Render(util.PadWidth(m.LookupKey(), keyWidth)),
						m.Label(),
						MutedStyle.Render("("+provider+")"),
					)
				}
				return nil
			})
		},
	}
}

// =============================================================================
// CHATS
// =============================================================================

func newChatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List stored chats, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				chats, err := a.store.ListChats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), storage.FormatChatList(chats))
				if len(chats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
}

// =============================================================================
// RENAME
// =============================================================================

func newRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Set the title of a chat",
		Long:  "Set the title of a chat. ID may be any unique prefix shown by \"elia chats\".",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return apperr.InvalidArgument("cli.rename", "title must not be empty")
			}

			return withApp(cmd, opts, func(a *app) error {
				id, err := a.resolveChatID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := a.store.SetTitle(cmd.Context(), id, title); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Renamed "+id+" to \""+title+"\""))
				return nil
			})
		},
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format   string
		output   string
		noMeta   bool
		noStamps bool
	)

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a chat to a Markdown or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportOpts := export.DefaultOptions()
			exportOpts.OutputDir = output
			exportOpts.IncludeMetadata = !noMeta
			exportOpts.IncludeTimestamps = !noStamps

			exporter, err := export.ForFormat(format, exportOpts)
			if err != nil {
				return apperr.InvalidArgument("cli.export", "%v", err)
			}

			return withApp(cmd, opts, func(a *app) error {
				id, err := a.resolveChatID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				chat, err := a.store.GetChat(cmd.Context(), id)
				if err != nil {
					return err
				}
				path, err := export.ExportToFile(chat, exporter, exportOpts)
				if err != nil {
					return NewCommandError("export", "could not write "+exporter.MimeType(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Exported to "+path))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory to write the file to")
	cmd.Flags().BoolVar(&noMeta, "no-metadata", false, "omit the front matter and session details")
	cmd.Flags().BoolVar(&noStamps, "no-timestamps", false, "omit per-message times")
	return cmd
}

// =============================================================================
// RESET
// =============================================================================

func newResetCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "delete every stored chat",
				ConfirmationOptions{Yes: yes, Interactive: IsTTY()})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), MutedStyle.Render("Cancelled."))
				return nil
			}

			return withApp(cmd, opts, func(a *app) error {
				if err := a.store.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("All chats deleted."))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
