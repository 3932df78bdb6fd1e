// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package signal

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"

	"github.com/jeranaias/elia-tui/internal/apperr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// BUS TESTS
// =============================================================================

func TestPublish_SubscriptionOrder(t *testing.T) {
	bus := NewBus[int](TopicRuntimeConfigUpdated)
	var got []string

	bus.Subscribe(func(v int) error { got = append(got, "a"); return nil })
	bus.Subscribe(func(v int) error { got = append(got, "b"); return nil })
	bus.Subscribe(func(v int) error { got = append(got, "c"); return nil })

	require.NoError(t, bus.Publish(1))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, TopicRuntimeConfigUpdated, bus.Topic())
}

func TestPublish_FailingHandlerIsolated(t *testing.T) {
	bus := NewBus[string]("t")
	var second []string

	bus.Subscribe(func(v string) error { return errors.New("boom") })
	bus.Subscribe(func(v string) error { panic("kaboom") })
	bus.Subscribe(func(v string) error { second = append(second, v); return nil })

	err := bus.Publish("snapshot")
	require.Error(t, err)
	assert.Equal(t, []string{"snapshot"}, second)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.ErrorIs(t, e, apperr.ErrHandler)
	}
	assert.Contains(t, errs[1].Error(), "kaboom")
}

func TestPublish_SubscriberAddedDuringDeliveryWaits(t *testing.T) {
	bus := NewBus[int]("t")
	var late []int

	bus.Subscribe(func(v int) error {
		if v == 1 {
			bus.Subscribe(func(v int) error { late = append(late, v); return nil })
		}
		return nil
	})

	require.NoError(t, bus.Publish(1))
	assert.Empty(t, late)

	require.NoError(t, bus.Publish(2))
	assert.Equal(t, []int{2}, late)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus[int]("t")
	var a, b int

	ha := bus.Subscribe(func(v int) error { a += v; return nil })
	bus.Subscribe(func(v int) error { b += v; return nil })

	require.NoError(t, bus.Publish(1))
	assert.True(t, bus.Unsubscribe(ha))
	assert.False(t, bus.Unsubscribe(ha))
	require.NoError(t, bus.Publish(10))

	assert.Equal(t, 1, a)
	assert.Equal(t, 11, b)
	assert.Equal(t, 1, bus.Len())
}

func TestUnsubscribeDuringDelivery_StillDelivered(t *testing.T) {
	bus := NewBus[int]("t")
	var victim Handle
	var got []int

	bus.Subscribe(func(v int) error {
		bus.Unsubscribe(victim)
		return nil
	})
	victim = bus.Subscribe(func(v int) error { got = append(got, v); return nil })

	require.NoError(t, bus.Publish(7))
	require.NoError(t, bus.Publish(8))
	assert.Equal(t, []int{7}, got)
}

func TestPublish_ConcurrentSubscribe(t *testing.T) {
	bus := NewBus[int]("t")
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h := bus.Subscribe(func(int) error { return nil })
			bus.Unsubscribe(h)
		}()
		go func(v int) {
			defer wg.Done()
			_ = bus.Publish(v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, bus.Len())
}

// =============================================================================
// MAILBOX TESTS
// =============================================================================

func TestMailbox_PreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var got []int

	mb := NewMailbox(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	bus := NewBus[int]("t")
	bus.Subscribe(mb.Handler())
	for i := 0; i < 100; i++ {
		require.NoError(t, bus.Publish(i))
	}
	mb.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestMailbox_PostAfterCloseDiscarded(t *testing.T) {
	calls := 0
	mb := NewMailbox(func(int) { calls++ })
	mb.Close()
	mb.Post(1)
	mb.Close()
	assert.Equal(t, 0, calls)
}
