// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/elia-tui/internal/model"
	"github.com/jeranaias/elia-tui/internal/runtimecfg"
	"github.com/jeranaias/elia-tui/internal/signal"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// =============================================================================
// PROGRAM PRESENTER
// =============================================================================

// ProgramPresenter forwards events from background work into the program.
// It satisfies session.Presenter and can be bound before the program exists.
type ProgramPresenter struct {
	sender Sender
}

// NewProgramPresenter creates an unbound presenter.
func NewProgramPresenter() *ProgramPresenter {
	return &ProgramPresenter{}
}

// Bind attaches the program. Call it before the program starts running.
func (p *ProgramPresenter) Bind(sender Sender) {
	p.sender = sender
}

// Send forwards msg to the bound program. Messages sent before Bind are dropped.
func (p *ProgramPresenter) Send(msg tea.Msg) {
	if p.sender != nil {
		p.sender.Send(msg)
	}
}

// PresentChat hands a launched chat to the UI.
func (p *ProgramPresenter) PresentChat(chat model.ChatData) {
	p.Send(ChatPresentedMsg{Chat: chat})
}

// TitleUpdated reports a generated title. It matches llm.OnTitle.
func (p *ProgramPresenter) TitleUpdated(chatID, title string) {
	p.Send(TitleUpdatedMsg{ChatID: chatID, Title: title})
}

// ConfigMailbox returns a mailbox that forwards configuration snapshots to
// the UI. Subscribe its Handler to the runtime configuration bus; the bus
// handler returns at once and the program receives the snapshot later.
func (p *ProgramPresenter) ConfigMailbox() *signal.Mailbox[runtimecfg.RuntimeConfig] {
	return signal.NewMailbox(func(cfg runtimecfg.RuntimeConfig) {
		p.Send(ConfigChangedMsg{Config: cfg})
	})
}
