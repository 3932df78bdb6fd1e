// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrConfirmationRequired is returned when a destructive command cannot
// prompt and --yes was not given.
var ErrConfirmationRequired = errors.New("confirmation required: re-run with --yes")

// =============================================================================
// CONFIRMATION
// =============================================================================

// ConfirmationOptions controls Confirm.
type ConfirmationOptions struct {
	// Yes skips the prompt (--yes).
	Yes bool

	// Interactive reports whether the user can answer a prompt.
	Interactive bool
}

// Confirm asks before a destructive action. Only "y" or "yes" confirms.
func Confirm(in io.Reader, out io.Writer, action string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if !opts.Interactive {
		return false, ErrConfirmationRequired
	}

	fmt.Fprintf(out, "%s %s [y/N]: ", WarningStyle.Render("This will "+action+"."), "Continue?")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
