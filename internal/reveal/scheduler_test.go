// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(time.Millisecond, zap.NewNop())
}

// drain ticks h until the activation stops and returns the number of ticks.
func drain(t *testing.T, s *Scheduler, h Handle) int {
	t.Helper()
	for i := 0; i < 100000; i++ {
		res, err := s.Tick(h)
		require.NoError(t, err)
		if res != TickAdvanced {
			return i
		}
	}
	t.Fatal("scheduler did not finish")
	return 0
}

func TestScheduler_RunsToFinal(t *testing.T) {
	res := sampleResults["full"]
	sections := BuildSections(res)

	s := newTestScheduler()
	h := s.Start(sections)
	require.True(t, s.Owns(h))

	drain(t, s, h)

	assert.False(t, s.Active())
	if diff := cmp.Diff(Final(sections), s.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res, s.State().Result()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduler_EmptyCompletesOnFirstTick(t *testing.T) {
	s := newTestScheduler()
	h := s.Start(BuildSections(analysis.Result{}))

	res, err := s.Tick(h)
	require.NoError(t, err)
	assert.Equal(t, TickDone, res)
	assert.True(t, s.State().IsEmpty())
	assert.False(t, s.Active())
}

func TestScheduler_RestartDropsStaleTicks(t *testing.T) {
	s := newTestScheduler()

	old := s.Start(TextSections("first reply that is long"))
	for i := 0; i < 3; i++ {
		_, err := s.Tick(old)
		require.NoError(t, err)
	}
	require.Equal(t, "fir", s.State().Explanation)

	h := s.Start(TextSections("second"))
	assert.False(t, s.Owns(old))
	assert.True(t, s.Owns(h))
	assert.True(t, s.State().IsEmpty(), "start must clear the previous state")

	// Ticks already queued for the old activation are dropped.
	for i := 0; i < 5; i++ {
		res, err := s.Tick(old)
		require.NoError(t, err)
		assert.Equal(t, TickStale, res)
		cmd, err := s.Update(TickMsg{ID: s.ID(), Handle: old})
		require.NoError(t, err)
		assert.Nil(t, cmd)
	}
	assert.True(t, s.State().IsEmpty())

	drain(t, s, h)
	assert.Equal(t, "second", s.State().Explanation)
}

func TestScheduler_CancelIsImmediate(t *testing.T) {
	s := newTestScheduler()
	h := s.Start(TextSections("abcdef"))
	_, _ = s.Tick(h)
	_, _ = s.Tick(h)

	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h), "second cancel is a no-op")

	res, err := s.Tick(h)
	require.NoError(t, err)
	assert.Equal(t, TickStale, res)
	assert.Equal(t, "ab", s.State().Explanation)
	assert.Equal(t, Handle{}, s.Handle())
}

func TestScheduler_ResetMidReveal(t *testing.T) {
	text := strings.Repeat("abcde", 10)
	require.Len(t, text, 50)

	s := newTestScheduler()
	h := s.Start(BuildSections(analysis.Result{Explanation: text}))
	for i := 0; i < 10; i++ {
		_, err := s.Tick(h)
		require.NoError(t, err)
	}
	require.Equal(t, text[:10], s.State().Explanation)

	s.Reset()
	assert.Equal(t, "", s.State().Explanation)

	for i := 0; i < 10; i++ {
		cmd, err := s.Update(TickMsg{ID: s.ID(), Handle: h})
		require.NoError(t, err)
		assert.Nil(t, cmd)
	}
	assert.Equal(t, "", s.State().Explanation)
	assert.False(t, s.Active())
}

func TestScheduler_ResetIsIdempotent(t *testing.T) {
	s := newTestScheduler()
	h := s.Start(TextSections("hello"))
	_, _ = s.Tick(h)

	s.Reset()
	s.Reset()

	assert.True(t, s.State().IsEmpty())
	assert.False(t, s.Active())
	assert.Nil(t, s.Sections())
}

func TestScheduler_UpdateIgnoresOtherTimers(t *testing.T) {
	a := newTestScheduler()
	b := newTestScheduler()
	require.NotEqual(t, a.ID(), b.ID())

	h := a.Start(TextSections("x"))
	cmd, err := b.Update(TickMsg{ID: a.ID(), Handle: h})
	require.NoError(t, err)
	assert.Nil(t, cmd)
	assert.True(t, a.State().IsEmpty())
}

func TestScheduler_UpdateSchedulesUntilDone(t *testing.T) {
	s := newTestScheduler()
	h := s.Start(TextSections("hi"))

	msg := TickMsg{ID: s.ID(), Handle: h}
	var cmds int
	for {
		cmd, err := s.Update(msg)
		require.NoError(t, err)
		require.NotNil(t, cmd)
		cmds++

		next := cmd()
		if done, ok := next.(DoneMsg); ok {
			assert.Equal(t, h, done.Handle)
			assert.Equal(t, s.ID(), done.ID)
			break
		}
		tick, ok := next.(TickMsg)
		require.True(t, ok, "unexpected message %T", next)
		msg = tick
	}

	// Two characters, one section advance, one completing evaluation.
	assert.Equal(t, 4, cmds)
	assert.Equal(t, "hi", s.State().Explanation)
}

func TestScheduler_UpdateReportsInvariantError(t *testing.T) {
	s := newTestScheduler()
	h := s.Start([]Section{{Kind: SectionKind(7)}})

	cmd, err := s.Update(TickMsg{ID: s.ID(), Handle: h})
	assert.Nil(t, cmd)
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.False(t, s.Active())
}

func TestScheduler_Flush(t *testing.T) {
	s := newTestScheduler()
	sections := BuildSections(sampleResults["full"])
	h := s.Start(sections)
	_, _ = s.Tick(h)

	assert.True(t, s.Flush(h))
	assert.False(t, s.Active())
	if diff := cmp.Diff(Final(sections), s.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.Flush(h))
}

func TestScheduler_StateIsACopy(t *testing.T) {
	s := newTestScheduler()
	h := s.Start(BuildSections(analysis.Result{PossibleDiagnoses: []string{"Flu"}}))
	_, _ = s.Tick(h)

	st := s.State()
	st.Diagnoses[0] = "changed"
	assert.Equal(t, []string{"F"}, s.State().Diagnoses)
}
