// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/elia-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.NewRegistry(nil).Resolve("nebula"))
}

// =============================================================================
// RESPONSE STATUS TESTS
// =============================================================================

func TestResponseStatus_Lifecycle(t *testing.T) {
	s := NewResponseStatus(testTheme())

	if s.IsActive() {
		t.Error("new status should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive status should render nothing")
	}

	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if s.Message() != StatusAwaiting {
		t.Errorf("after Start() message = %q, want %q", s.Message(), StatusAwaiting)
	}
	if !strings.Contains(s.View(), StatusAwaiting) {
		t.Errorf("view missing awaiting text: %q", s.View())
	}

	s.Responding()
	if !strings.Contains(s.View(), StatusResponding) {
		t.Errorf("view missing responding text: %q", s.View())
	}

	s.Stop()
	if s.IsActive() || s.View() != "" {
		t.Error("Stop() should hide the status")
	}

	// A new reply starts over in the awaiting state.
	s.Start()
	if s.Message() != StatusAwaiting {
		t.Errorf("restart message = %q", s.Message())
	}
}

func TestResponseStatus_InactiveIgnoresTicks(t *testing.T) {
	s := NewResponseStatus(testTheme())
	_, cmd := s.Update(s.spinner.Tick())
	if cmd != nil {
		t.Error("inactive status should not schedule ticks")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{61 * time.Second, "1m 1s"},
		{10*time.Minute + 5*time.Second, "10m 5s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// RENAME MODAL TESTS
// =============================================================================

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestRenameModal_Submit(t *testing.T) {
	m := NewRenameModal(testTheme(), "chat-1", "")
	if !strings.Contains(m.View(), "[enter] Save  [esc] Cancel") {
		t.Error("view missing key hints")
	}

	for _, r := range "  New title " {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if m.Value() != "  New title " {
		t.Fatalf("Value() = %q", m.Value())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := runCmd(cmd).(RenameSubmittedMsg)
	if !ok {
		t.Fatalf("enter produced %T, want RenameSubmittedMsg", runCmd(cmd))
	}
	if msg.ChatID != "chat-1" || msg.Title != "New title" {
		t.Errorf("submitted %+v", msg)
	}
}

func TestRenameModal_BlankNotSubmitted(t *testing.T) {
	m := NewRenameModal(testTheme(), "chat-1", "   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Errorf("blank title submitted: %v", runCmd(cmd))
	}
}

func TestRenameModal_Cancel(t *testing.T) {
	m := NewRenameModal(testTheme(), "chat-1", "Old")
	if m.Value() != "Old" {
		t.Errorf("prefill = %q", m.Value())
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := runCmd(cmd).(RenameCancelledMsg); !ok {
		t.Error("esc should cancel")
	}
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownRenderer(t *testing.T) {
	r, err := NewMarkdownRenderer("monokai", true, 5)
	if err != nil {
		t.Fatalf("NewMarkdownRenderer: %v", err)
	}
	if r.Width() != 20 {
		t.Errorf("width should be clamped to 20, got %d", r.Width())
	}
	if r.CodeTheme() != "monokai" {
		t.Errorf("CodeTheme() = %q", r.CodeTheme())
	}

	out := r.Render("# Title\n\nSome *body* text.")
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body") {
		t.Errorf("rendered output lost content: %q", out)
	}
}
