// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

// runSteps applies Step until completion and returns every intermediate state.
func runSteps(t *testing.T, sections []Section) []State {
	t.Helper()

	var (
		c      Cursor
		s      State
		states []State
	)
	for i := 0; i < 100000; i++ {
		next, ns, done, err := Step(c, s, sections)
		require.NoError(t, err)
		if done {
			return states
		}
		c, s = next, ns
		states = append(states, s.Clone())
	}
	t.Fatal("reveal did not complete")
	return nil
}

func finalOf(states []State) State {
	if len(states) == 0 {
		return State{}
	}
	return states[len(states)-1]
}

var sampleResults = map[string]analysis.Result{
	"empty":     {},
	"diagnoses": {PossibleDiagnoses: []string{"Flu", "Cold"}},
	"full": {
		SessionID:         "3f2a-11",
		PossibleDiagnoses: []string{"Migraine", "Tension headache", "Sinusitis"},
		Explanation:       "Symptoms point to a primary headache disorder.",
		ExamName:          "Neurological exam",
		ExamType:          "Physical",
	},
	"unicode": {
		Explanation:       "Fièvre 🤒 et toux",
		PossibleDiagnoses: []string{"Grippe saisonnière", "日本語"},
	},
	"empty item": {PossibleDiagnoses: []string{"A", "", "B"}},
	"exam name":  {ExamName: "X-ray"},
	"exam type":  {ExamType: "Imaging"},
}

func TestStep_Lossless(t *testing.T) {
	for name, res := range sampleResults {
		t.Run(name, func(t *testing.T) {
			sections := BuildSections(res)
			got := finalOf(runSteps(t, sections))
			if diff := cmp.Diff(Final(sections), got); diff != "" {
				t.Errorf("final state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStep_PrefixAtEveryTick(t *testing.T) {
	for name, res := range sampleResults {
		t.Run(name, func(t *testing.T) {
			sections := BuildSections(res)
			final := Final(sections)

			var prev State
			for i, s := range runSteps(t, sections) {
				assert.True(t, strings.HasPrefix(final.SessionID, s.SessionID), "tick %d session id", i)
				assert.True(t, strings.HasPrefix(final.Explanation, s.Explanation), "tick %d explanation", i)
				assert.True(t, strings.HasPrefix(final.ExamName, s.ExamName), "tick %d exam name", i)
				assert.True(t, strings.HasPrefix(final.ExamType, s.ExamType), "tick %d exam type", i)

				require.LessOrEqual(t, len(s.Diagnoses), len(final.Diagnoses), "tick %d", i)
				for j, d := range s.Diagnoses {
					assert.True(t, strings.HasPrefix(final.Diagnoses[j], d), "tick %d item %d", i, j)
				}

				// Lengths never shrink.
				assert.GreaterOrEqual(t, len(s.Explanation), len(prev.Explanation))
				assert.GreaterOrEqual(t, len(s.Diagnoses), len(prev.Diagnoses))
				prev = s
			}
		})
	}
}

func TestStep_OneRunePerTick(t *testing.T) {
	sections := TextSections("a🤒é")
	states := runSteps(t, sections)

	want := []string{"a", "a🤒", "a🤒é", "a🤒é"}
	got := make([]string, len(states))
	for i, s := range states {
		got[i] = s.Explanation
	}
	assert.Equal(t, want, got)
}

func TestStep_RestAndHydrate(t *testing.T) {
	sections := BuildSections(analysis.Result{Explanation: "Rest and hydrate."})
	states := runSteps(t, sections)

	require.GreaterOrEqual(t, len(states), 4)
	assert.Equal(t, "Rest", states[3].Explanation)
}

func TestStep_EmptyCompletesImmediately(t *testing.T) {
	c, s, done, err := Step(Cursor{}, State{}, BuildSections(analysis.Result{}))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, Cursor{}, c)
	assert.True(t, s.IsEmpty())
}

func TestStep_DiagnosesOnly(t *testing.T) {
	states := runSteps(t, BuildSections(analysis.Result{PossibleDiagnoses: []string{"Flu", "Cold"}}))
	final := finalOf(states)

	assert.Equal(t, []string{"Flu", "Cold"}, final.Diagnoses)
	assert.Empty(t, final.SessionID)
	assert.Empty(t, final.Explanation)
	assert.Empty(t, final.ExamName)
	assert.Empty(t, final.ExamType)

	// The first tick opens the slot and reveals the first character.
	assert.Equal(t, []string{"F"}, states[0].Diagnoses)
}

func TestStep_ExaminationTypesNameThenType(t *testing.T) {
	states := runSteps(t, BuildSections(analysis.Result{ExamName: "CT", ExamType: "Scan"}))

	got := make([][2]string, len(states))
	for i, s := range states {
		got[i] = [2]string{s.ExamName, s.ExamType}
	}
	want := [][2]string{
		{"C", ""},
		{"CT", ""},
		{"CT", "S"},
		{"CT", "Sc"},
		{"CT", "Sca"},
		{"CT", "Scan"},
		{"CT", "Scan"},
	}
	assert.Equal(t, want, got)
}

func TestStep_DoesNotMutateInput(t *testing.T) {
	sections := BuildSections(analysis.Result{PossibleDiagnoses: []string{"Flu", "Cold"}})
	c := Cursor{Item: 0, Pos: 1}
	s := State{Diagnoses: []string{"F"}}

	_, next, _, err := Step(c, s, sections)
	require.NoError(t, err)

	assert.Equal(t, []string{"F"}, s.Diagnoses)
	assert.Equal(t, []string{"Fl"}, next.Diagnoses)
}

func TestStep_InvariantViolations(t *testing.T) {
	expl := TextSections("hello")
	diag := BuildSections(analysis.Result{PossibleDiagnoses: []string{"Flu", "Cold"}})
	uni := TextSections("é")

	tests := []struct {
		name     string
		cursor   Cursor
		state    State
		sections []Section
	}{
		{"negative position", Cursor{Pos: -1}, State{}, expl},
		{"text shorter than cursor", Cursor{Pos: 3}, State{Explanation: "he"}, expl},
		{"text differs from source", Cursor{Pos: 2}, State{Explanation: "xx"}, expl},
		{"position past end", Cursor{Pos: 9}, State{Explanation: "hello"}, expl},
		{"position inside rune", Cursor{Pos: 1}, State{Explanation: "\xc3"}, uni},
		{"slot gap", Cursor{Item: 1}, State{}, diag},
		{"position without slot", Cursor{Item: 0, Pos: 1}, State{}, diag},
		{"exam phase", Cursor{Item: 5}, State{}, []Section{{Kind: SectionExamination, Name: "a"}}},
		{"unknown kind", Cursor{}, State{}, []Section{{Kind: SectionKind(9)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, done, err := Step(tt.cursor, tt.state, tt.sections)
			assert.False(t, done)

			var ie *InvariantError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.NotEmpty(t, ie.Error())
		})
	}
}
