// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReply_AllFields(t *testing.T) {
	got := FormatReply(&Result{
		SessionID:         "s-1",
		PossibleDiagnoses: []string{"Flu", "Cold"},
		Explanation:       "Rest and hydrate.",
		ExamName:          "CBC",
		ExamType:          "Blood test",
	})

	want := "🔬 **Medical Analysis Complete**\n\n" +
		"📋 **Session ID:** s-1\n\n" +
		"🩺 **Possible Diagnoses:**\n1. Flu\n2. Cold\n\n" +
		"📖 **Medical Explanation:**\nRest and hydrate.\n\n" +
		"🔍 **Recommended Examination:** CBC\n" +
		"📊 **Examination Type:** Blood test\n\n" +
		Disclaimer
	assert.Equal(t, want, got)
}

func TestFormatReply_SkipsAbsentFields(t *testing.T) {
	got := FormatReply(&Result{Explanation: "Only this."})

	assert.NotContains(t, got, "Session ID")
	assert.NotContains(t, got, "Possible Diagnoses")
	assert.NotContains(t, got, "Recommended Examination")
	assert.Contains(t, got, "Only this.")
	assert.True(t, strings.HasSuffix(got, Disclaimer))
}

func TestFormatReply_Nil(t *testing.T) {
	got := FormatReply(nil)
	assert.True(t, strings.HasPrefix(got, "🔬"))
	assert.True(t, strings.HasSuffix(got, Disclaimer))
}

func TestFailureReply(t *testing.T) {
	got := FailureReply(errors.New("API Error 500: Internal Server Error"))
	assert.Contains(t, got, "unable to connect to the medical database")
	assert.Contains(t, got, "API Error 500")
}

func TestResult_IsEmptyAndClone(t *testing.T) {
	assert.True(t, Result{}.IsEmpty())
	assert.False(t, Result{ExamType: "x"}.IsEmpty())

	r := Result{PossibleDiagnoses: []string{"a"}}
	c := r.Clone()
	c.PossibleDiagnoses[0] = "b"
	assert.Equal(t, "a", r.PossibleDiagnoses[0])
}
