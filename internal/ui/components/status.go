// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

// Status messages.
const (
	StatusAwaiting   = "Awaiting response"
	StatusResponding = "Agent is responding"
)

// =============================================================================
// RESPONSE STATUS
// =============================================================================

// ResponseStatus shows the progress of an assistant reply.
type ResponseStatus struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewResponseStatus creates an inactive status indicator.
func NewResponseStatus(theme *styles.Theme) ResponseStatus {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return ResponseStatus{
		spinner:   s,
		theme:     theme,
		message:   StatusAwaiting,
		showTimer: true,
	}
}

// Start activates the indicator in the awaiting state.
func (s *ResponseStatus) Start() tea.Cmd {
	s.isActive = true
	s.message = StatusAwaiting
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Responding switches to the responding state once the first token arrives.
func (s *ResponseStatus) Responding() {
	s.message = StatusResponding
}

// Stop deactivates the indicator.
func (s *ResponseStatus) Stop() {
	s.isActive = false
}

// SetTheme restyles the indicator.
func (s *ResponseStatus) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// IsActive returns whether a reply is in progress.
func (s ResponseStatus) IsActive() bool {
	return s.isActive
}

// Message returns the current status text.
func (s ResponseStatus) Message() string {
	return s.message
}

// Update handles spinner ticks.
func (s ResponseStatus) Update(msg tea.Msg) (ResponseStatus, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the indicator, or "" when inactive.
func (s ResponseStatus) View() string {
	if !s.isActive {
		return ""
	}

	result := s.theme.Spinner.Render(s.spinner.View()) + " " + s.theme.ThinkingText.Render(s.message)

	if s.showTimer && !s.startTime.IsZero() {
		result += s.theme.ThinkingTime.Render(" (" + formatElapsed(time.Since(s.startTime)) + ")")
	}
	return result
}

// formatElapsed formats a duration for display.
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
