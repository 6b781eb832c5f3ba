// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"strings"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

// SectionKind identifies which field of a result a Section reveals.
type SectionKind int

const (
	// SectionIdentifier is the analysis session id.
	SectionIdentifier SectionKind = iota
	// SectionDiagnoses is the ordered list of possible diagnoses.
	SectionDiagnoses
	// SectionExplanation is the explanation paragraph, or a whole chat reply.
	SectionExplanation
	// SectionExamination is the recommended examination name and type.
	SectionExamination
)

// String returns a short name for the kind.
func (k SectionKind) String() string {
	switch k {
	case SectionIdentifier:
		return "identifier"
	case SectionDiagnoses:
		return "diagnoses"
	case SectionExplanation:
		return "explanation"
	case SectionExamination:
		return "examination"
	default:
		return "unknown"
	}
}

// Section is one independently revealed chunk of a result.
// Text is used by Identifier and Explanation, Items by Diagnoses,
// Name and Type by Examination.
type Section struct {
	Kind  SectionKind
	Text  string
	Items []string
	Name  string
	Type  string
}

// BuildSections splits a result into sections in display order.
// Empty fields produce no section. Diagnosis items are kept as given, except
// that invalid UTF-8 is replaced so every field splits cleanly into runes.
func BuildSections(r analysis.Result) []Section {
	var sections []Section
	r = sanitize(r)

	if r.SessionID != "" {
		sections = append(sections, Section{Kind: SectionIdentifier, Text: r.SessionID})
	}
	if len(r.PossibleDiagnoses) > 0 {
		sections = append(sections, Section{Kind: SectionDiagnoses, Items: r.PossibleDiagnoses})
	}
	if r.Explanation != "" {
		sections = append(sections, Section{Kind: SectionExplanation, Text: r.Explanation})
	}
	if r.ExamName != "" || r.ExamType != "" {
		sections = append(sections, Section{Kind: SectionExamination, Name: r.ExamName, Type: r.ExamType})
	}

	return sections
}

// TextSections wraps a flat chat reply as a single explanation section.
// An empty reply yields no sections.
func TextSections(reply string) []Section {
	if reply == "" {
		return nil
	}
	return []Section{{Kind: SectionExplanation, Text: validText(reply)}}
}

func sanitize(r analysis.Result) analysis.Result {
	r.SessionID = validText(r.SessionID)
	r.Explanation = validText(r.Explanation)
	r.ExamName = validText(r.ExamName)
	r.ExamType = validText(r.ExamType)
	if r.PossibleDiagnoses != nil {
		items := make([]string, len(r.PossibleDiagnoses))
		for i, d := range r.PossibleDiagnoses {
			items[i] = validText(d)
		}
		r.PossibleDiagnoses = items
	}
	return r
}

func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
