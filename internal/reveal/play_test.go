// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPlay_Completes(t *testing.T) {
	s := NewScheduler(time.Millisecond, zap.NewNop())
	h := s.Start(TextSections("hello"))

	var published []string
	err := Play(context.Background(), s, h, func(st State) {
		published = append(published, st.Explanation)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"h", "he", "hel", "hell", "hello", "hello"}, published)
	assert.False(t, s.Active())
}

func TestPlay_ContextCancelStopsReveal(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(time.Millisecond, zap.NewNop())
	h := s.Start(TextSections(string(make([]byte, 10000))))

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := Play(ctx, s, h, func(State) {
		ticks++
		if ticks == 5 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Owns(h))
	assert.Len(t, s.State().Explanation, 5)
}

func TestPlay_StaleHandle(t *testing.T) {
	s := NewScheduler(time.Millisecond, zap.NewNop())
	h := s.Start(TextSections("x"))
	s.Stop()

	err := Play(context.Background(), s, h, nil)
	assert.True(t, errors.Is(err, ErrNotActive))
}
