// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import "github.com/jeranaias/triage-tui/internal/analysis"

// State is the partially revealed mirror of a result.
// Every field starts empty and only grows while a reveal is active.
type State struct {
	SessionID   string
	Diagnoses   []string
	Explanation string
	ExamName    string
	ExamType    string
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	if s.Diagnoses != nil {
		c.Diagnoses = append([]string(nil), s.Diagnoses...)
	}
	return c
}

// IsEmpty reports whether nothing has been revealed.
func (s State) IsEmpty() bool {
	return s.SessionID == "" &&
		len(s.Diagnoses) == 0 &&
		s.Explanation == "" &&
		s.ExamName == "" &&
		s.ExamType == ""
}

// Result converts the revealed state back to the wire shape.
func (s State) Result() analysis.Result {
	return analysis.Result{
		SessionID:         s.SessionID,
		PossibleDiagnoses: append([]string(nil), s.Diagnoses...),
		Explanation:       s.Explanation,
		ExamName:          s.ExamName,
		ExamType:          s.ExamType,
	}
}

// Final returns the state a completed reveal of sections ends in.
func Final(sections []Section) State {
	var s State
	for _, sec := range sections {
		switch sec.Kind {
		case SectionIdentifier:
			s.SessionID = sec.Text
		case SectionDiagnoses:
			s.Diagnoses = append([]string(nil), sec.Items...)
		case SectionExplanation:
			s.Explanation = sec.Text
		case SectionExamination:
			s.ExamName = sec.Name
			s.ExamType = sec.Type
		}
	}
	return s
}
