// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCounter(t *testing.T, c *Counter, h Handle) int {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if c.Tick(h) != TickAdvanced {
			return i
		}
	}
	t.Fatal("counter did not finish")
	return 0
}

func TestCounter_ReachesTargetWithinBounds(t *testing.T) {
	c := NewCounter(time.Millisecond, DefaultCounterMin, DefaultCounterMax, zap.NewNop())

	for i := 0; i < 200; i++ {
		h := c.Start()
		target := c.Target()
		require.GreaterOrEqual(t, target, 85)
		require.LessOrEqual(t, target, 98)

		prev := c.Value()
		require.Equal(t, 0, prev)
		for c.Tick(h) == TickAdvanced {
			require.Equal(t, prev+1, c.Value())
			prev = c.Value()
		}
		assert.Equal(t, target, c.Value())
		assert.False(t, c.Active())
	}
}

func TestCounter_BoundsAreInclusive(t *testing.T) {
	low := NewCounter(time.Millisecond, 85, 98, nil, WithRand(func(int) int { return 0 }))
	low.Start()
	assert.Equal(t, 85, low.Target())

	high := NewCounter(time.Millisecond, 85, 98, nil, WithRand(func(n int) int { return n - 1 }))
	high.Start()
	assert.Equal(t, 98, high.Target())
}

func TestCounter_SwappedBounds(t *testing.T) {
	c := NewCounter(time.Millisecond, 98, 85, nil, WithRand(func(int) int { return 0 }))
	c.Start()
	assert.Equal(t, 85, c.Target())
}

func TestCounter_TickCount(t *testing.T) {
	c := NewCounter(time.Millisecond, 3, 3, nil)
	h := c.Start()
	assert.Equal(t, 3, runCounter(t, c, h))
	assert.Equal(t, 3, c.Value())
	assert.Equal(t, TickStale, c.Tick(h))
}

func TestCounter_CancelAndRestart(t *testing.T) {
	c := NewCounter(time.Millisecond, 90, 90, nil)
	old := c.Start()
	c.Tick(old)
	c.Tick(old)
	require.Equal(t, 2, c.Value())

	assert.True(t, c.Cancel(old))
	assert.Equal(t, TickStale, c.Tick(old))
	assert.Equal(t, 2, c.Value())

	h := c.Start()
	assert.Equal(t, 0, c.Value())
	assert.Nil(t, c.Update(TickMsg{ID: c.ID(), Handle: old}))
	assert.Equal(t, 0, c.Value())

	runCounter(t, c, h)
	assert.Equal(t, 90, c.Value())
}

func TestCounter_Reset(t *testing.T) {
	c := NewCounter(time.Millisecond, 85, 98, nil)
	h := c.Start()
	c.Tick(h)

	c.Reset()
	c.Reset()
	assert.Equal(t, 0, c.Value())
	assert.Equal(t, 0, c.Target())
	assert.False(t, c.Active())
}

func TestCounter_UpdateEmitsDone(t *testing.T) {
	c := NewCounter(time.Millisecond, 1, 1, nil)
	h := c.Start()

	cmd := c.Update(TickMsg{ID: c.ID(), Handle: h})
	require.NotNil(t, cmd)
	_, ok := cmd().(TickMsg)
	require.True(t, ok)

	cmd = c.Update(TickMsg{ID: c.ID(), Handle: h})
	require.NotNil(t, cmd)
	assert.Equal(t, DoneMsg{ID: c.ID(), Handle: h}, cmd())
}

func TestCounter_Finish(t *testing.T) {
	c := NewCounter(time.Millisecond, 90, 90, nil)
	h := c.Start()
	c.Tick(h)

	assert.True(t, c.Finish(h))
	assert.Equal(t, 90, c.Value())
	assert.False(t, c.Active())
	assert.False(t, c.Finish(h))
}
