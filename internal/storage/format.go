// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strconv"
	"strings"

	"github.com/jeranaias/elia-tui/internal/util"
)

const (
	listIDWidth      = 8
	listTitleWidth   = 30
	listCreatedWidth = 16
	listCountWidth   = 8
)

// FormatChatList formats chats as a table for the "chats" command.
// Untitled chats show their first user message instead.
func FormatChatList(chats []ChatSummary) string {
	if len(chats) == 0 {
		return "No chats found."
	}

	rule := strings.Repeat("-", listIDWidth+listTitleWidth+listCreatedWidth+listCountWidth+3+12) + "\n"

	var sb strings.Builder
	sb.WriteString(rule)
	sb.WriteString(util.PadWidth("ID", listIDWidth) + " " +
		util.PadWidth("Title", listTitleWidth) + " " +
		util.PadWidth("Created", listCreatedWidth) + " " +
		util.PadWidth("Messages", listCountWidth) + " Model\n")
	sb.WriteString(rule)

	for _, c := range chats {
		title := c.Title
		if title == "" {
			title = util.SingleLine(c.Preview)
		}
		id := c.ID
		if len(id) > listIDWidth {
			id = id[:listIDWidth]
		}

		sb.WriteString(util.PadWidth(id, listIDWidth) + " " +
			util.PadWidth(util.TruncateWidth(title, listTitleWidth), listTitleWidth) + " " +
			util.PadWidth(c.CreatedAt.Local().Format("2006-01-02 15:04"), listCreatedWidth) + " " +
			util.PadWidth(strconv.Itoa(c.MessageCount), listCountWidth) + " " +
			c.ModelKey + "\n")
	}
	return sb.String()
}
