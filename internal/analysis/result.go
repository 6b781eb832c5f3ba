// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

// Result is the structured reply of the analysis service.
// Every field is optional; the service may omit any subset of them.
type Result struct {
	SessionID         string   `json:"session_id,omitempty"`
	PossibleDiagnoses []string `json:"possible_diagnoses,omitempty"`
	Explanation       string   `json:"explanation,omitempty"`
	ExamName          string   `json:"exam_name,omitempty"`
	ExamType          string   `json:"exam_type,omitempty"`
}

// IsEmpty reports whether the result carries no displayable field.
func (r Result) IsEmpty() bool {
	return r.SessionID == "" &&
		len(r.PossibleDiagnoses) == 0 &&
		r.Explanation == "" &&
		r.ExamName == "" &&
		r.ExamType == ""
}

// Clone returns a copy that shares no memory with r.
func (r Result) Clone() Result {
	c := r
	if r.PossibleDiagnoses != nil {
		c.PossibleDiagnoses = append([]string(nil), r.PossibleDiagnoses...)
	}
	return c
}
