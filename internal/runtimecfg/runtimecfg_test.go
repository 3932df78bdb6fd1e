// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runtimecfg

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/catalog"
	"github.com/jeranaias/elia-tui/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(t *testing.T) (*Manager, *catalog.Catalog) {
	t.Helper()
	cat, problems := catalog.New(model.BuiltinModels(), []model.RawModel{
		{Name: "llama3", ID: "local"},
	})
	require.Empty(t, problems)

	initial, err := cat.Resolve("elia-gpt-4o-mini")
	require.NoError(t, err)

	m, err := NewManager(cat, RuntimeConfig{SelectedModel: initial, SystemPrompt: "be nice"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return m, cat
}

func TestNewManager_RejectsUnresolvableInitial(t *testing.T) {
	cat, _ := catalog.New(model.BuiltinModels(), nil)

	_, err := NewManager(cat, RuntimeConfig{SelectedModel: model.ModelConfig{Name: "ghost"}}, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = NewManager(cat, RuntimeConfig{}, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestUpdate_InstallsAndBroadcasts(t *testing.T) {
	m, cat := newTestManager(t)
	var got []RuntimeConfig
	m.Subscribe(func(c RuntimeConfig) error {
		// Delivery happens after the snapshot is installed.
		assert.Equal(t, c, m.Current())
		got = append(got, c)
		return nil
	})

	local, err := cat.Resolve("local")
	require.NoError(t, err)
	next := m.Current().WithModel(local)

	require.NoError(t, m.Update(next))
	require.Len(t, got, 1)
	assert.Equal(t, next, got[0])
	assert.Equal(t, "local", m.Current().SelectedModel.LookupKey())
	assert.Equal(t, "be nice", m.Current().SystemPrompt)
}

func TestUpdate_UnknownModelRejectedNothingPublished(t *testing.T) {
	m, _ := newTestManager(t)
	calls := 0
	m.Subscribe(func(RuntimeConfig) error { calls++; return nil })
	before := m.Current()

	err := m.Update(before.WithModel(model.ModelConfig{Name: "ghost"}))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 0, calls)
	assert.Equal(t, before, m.Current())

	assert.ErrorIs(t, m.SelectModel("ghost"), apperr.ErrNotFound)
	assert.Equal(t, 0, calls)
}

func TestUpdate_OrderedNoDropsNoDuplicates(t *testing.T) {
	m, _ := newTestManager(t)

	var a, b []string
	m.Subscribe(func(c RuntimeConfig) error { a = append(a, c.SystemPrompt); return nil })
	m.Subscribe(func(c RuntimeConfig) error { b = append(b, c.SystemPrompt); return nil })

	var want []string
	for i := 0; i < 25; i++ {
		p := fmt.Sprintf("prompt-%d", i)
		want = append(want, p)
		require.NoError(t, m.SetSystemPrompt(p))
	}

	assert.Equal(t, want, a)
	assert.Equal(t, want, b)
}

func TestUpdate_ConcurrentCallersSeeApplyOrder(t *testing.T) {
	m, _ := newTestManager(t)

	// The subscriber records deliveries; the order must equal the order in
	// which snapshots became current, and every update is seen exactly once.
	var mu sync.Mutex
	var delivered []string
	var installed []string
	m.Subscribe(func(c RuntimeConfig) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, c.SystemPrompt)
		installed = append(installed, m.Current().SystemPrompt)
		return nil
	})

	var g errgroup.Group
	for i := 0; i < 40; i++ {
		p := fmt.Sprintf("p%d", i)
		g.Go(func() error { return m.SetSystemPrompt(p) })
	}
	require.NoError(t, g.Wait())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 40)
	assert.Equal(t, installed, delivered)

	seen := make(map[string]bool)
	for _, p := range delivered {
		assert.False(t, seen[p], "duplicate delivery of %s", p)
		seen[p] = true
	}
}

func TestUpdate_HandlerFailureDoesNotFailUpdate(t *testing.T) {
	m, _ := newTestManager(t)
	var second int
	m.Subscribe(func(RuntimeConfig) error { return errors.New("render failed") })
	m.Subscribe(func(RuntimeConfig) error { second++; return nil })

	require.NoError(t, m.SetSystemPrompt("x"))
	assert.Equal(t, 1, second)
}

func TestSelectModel_KeepsPrompt(t *testing.T) {
	m, _ := newTestManager(t)
	old := m.Current()

	require.NoError(t, m.SelectModel("elia-claude-3-haiku"))

	cur := m.Current()
	assert.Equal(t, "claude-3-haiku-20240307", cur.SelectedModel.Name)
	assert.Equal(t, "be nice", cur.SystemPrompt)
	// Old snapshots held by consumers stay valid.
	assert.Equal(t, "elia-gpt-4o-mini", old.SelectedModel.LookupKey())
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	m, _ := newTestManager(t)
	calls := 0
	h := m.Subscribe(func(RuntimeConfig) error { calls++; return nil })

	require.NoError(t, m.SetSystemPrompt("a"))
	assert.True(t, m.Unsubscribe(h))
	require.NoError(t, m.SetSystemPrompt("b"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, m.Bus().Len())
}

func TestCurrent_ConcurrentReads(t *testing.T) {
	m, _ := newTestManager(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.SetSystemPrompt(fmt.Sprintf("%d", i))
		}(i)
		go func() {
			defer wg.Done()
			cur := m.Current()
			if cur.SelectedModel.Name == "" {
				t.Error("Current() returned a partial snapshot")
			}
		}()
	}
	wg.Wait()
}
