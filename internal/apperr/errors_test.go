// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs_MatchesKind(t *testing.T) {
	err := NotFound("catalog.Resolve", "unknown model %q", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidArgument)

	wrapped := fmt.Errorf("launch: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestPersistence_UnwrapsCause(t *testing.T) {
	err := Persistence("storage.CreateChat", io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "storage.CreateChat: persistence error: unexpected EOF", err.Error())
}

func TestErrorMessage(t *testing.T) {
	err := InvalidArgument("session.LaunchChat", "prompt must not be empty")
	assert.Equal(t, "session.LaunchChat: invalid argument: prompt must not be empty", err.Error())

	h := Handler("signal.Publish", 2, errors.New("boom"))
	assert.Equal(t, "signal.Publish: handler error: subscriber 2: boom", h.Error())
}
