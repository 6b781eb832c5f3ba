// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"fmt"
	"unicode/utf8"
)

// =============================================================================
// CURSOR
// =============================================================================

// Cursor locates the next character to reveal.
//
// Section indexes the section list. For a diagnosis list Item indexes the
// current item; for an examination Item is 0 while the name is being typed
// and 1 for the type. Pos is the byte offset already revealed in the current
// string and always sits on a rune boundary.
type Cursor struct {
	Section int
	Item    int
	Pos     int
}

// Examination phases carried in Cursor.Item.
const (
	examPhaseName = 0
	examPhaseType = 1
)

// InvariantError reports a cursor that disagrees with the revealed state or
// the section structure. It means the caller corrupted the scheduler state.
type InvariantError struct {
	Cursor Cursor
	Kind   SectionKind
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("reveal: invariant violated at section %d item %d pos %d (%s): %s",
		e.Cursor.Section, e.Cursor.Item, e.Cursor.Pos, e.Kind, e.Reason)
}

// =============================================================================
// STEP
// =============================================================================

// Step performs one tick of the reveal. It never modifies its arguments.
//
// A tick reveals one more rune of the active section, or advances the cursor
// to the next section when the active one is complete. done is true once the
// cursor is past the last section; the returned cursor and state are then
// unchanged.
func Step(c Cursor, s State, sections []Section) (Cursor, State, bool, error) {
	if c.Section < 0 || c.Item < 0 || c.Pos < 0 {
		return c, s, false, &InvariantError{Cursor: c, Reason: "negative cursor"}
	}
	if c.Section >= len(sections) {
		return c, s, true, nil
	}

	sec := sections[c.Section]
	var err error

	switch sec.Kind {
	case SectionIdentifier:
		c, s.SessionID, err = stepText(c, sec, s.SessionID, sec.Text)
	case SectionExplanation:
		c, s.Explanation, err = stepText(c, sec, s.Explanation, sec.Text)
	case SectionDiagnoses:
		c, s, err = stepDiagnoses(c, s, sec)
	case SectionExamination:
		c, s, err = stepExamination(c, s, sec)
	default:
		err = &InvariantError{Cursor: c, Kind: sec.Kind, Reason: "unknown section kind"}
	}

	return c, s, false, err
}

// stepText reveals the next rune of a single string field.
func stepText(c Cursor, sec Section, revealed, full string) (Cursor, string, error) {
	if err := checkPrefix(c, sec.Kind, revealed, full); err != nil {
		return c, revealed, err
	}
	if c.Pos < len(full) {
		next, pos := appendRune(revealed, full, c.Pos)
		c.Pos = pos
		return c, next, nil
	}
	return advance(c), revealed, nil
}

// stepDiagnoses opens the slot for the current item if needed and reveals
// one rune of it. A complete item costs one tick to move to the next.
func stepDiagnoses(c Cursor, s State, sec Section) (Cursor, State, error) {
	if c.Item >= len(sec.Items) {
		return advance(c), s, nil
	}

	switch len(s.Diagnoses) {
	case c.Item:
		if c.Pos != 0 {
			return c, s, &InvariantError{Cursor: c, Kind: sec.Kind, Reason: "position set before item slot was opened"}
		}
		s.Diagnoses = append(append([]string(nil), s.Diagnoses...), "")
	case c.Item + 1:
		s.Diagnoses = append([]string(nil), s.Diagnoses...)
	default:
		return c, s, &InvariantError{
			Cursor: c,
			Kind:   sec.Kind,
			Reason: fmt.Sprintf("%d item slots open for item %d", len(s.Diagnoses), c.Item),
		}
	}

	full := sec.Items[c.Item]
	revealed := s.Diagnoses[c.Item]
	if err := checkPrefix(c, sec.Kind, revealed, full); err != nil {
		return c, s, err
	}

	if c.Pos < len(full) {
		s.Diagnoses[c.Item], c.Pos = appendRune(revealed, full, c.Pos)
		return c, s, nil
	}

	c.Item++
	c.Pos = 0
	return c, s, nil
}

// stepExamination reveals the name, then the type, skipping an empty field
// within the same tick.
func stepExamination(c Cursor, s State, sec Section) (Cursor, State, error) {
	if c.Item == examPhaseName {
		if err := checkPrefix(c, sec.Kind, s.ExamName, sec.Name); err != nil {
			return c, s, err
		}
		if c.Pos < len(sec.Name) {
			s.ExamName, c.Pos = appendRune(s.ExamName, sec.Name, c.Pos)
			return c, s, nil
		}
		c.Item = examPhaseType
		c.Pos = 0
	}

	if c.Item != examPhaseType {
		return c, s, &InvariantError{Cursor: c, Kind: sec.Kind, Reason: "unknown examination phase"}
	}
	if s.ExamName != sec.Name {
		return c, s, &InvariantError{Cursor: c, Kind: sec.Kind, Reason: "type phase reached with partial name"}
	}
	if err := checkPrefix(c, sec.Kind, s.ExamType, sec.Type); err != nil {
		return c, s, err
	}
	if c.Pos < len(sec.Type) {
		s.ExamType, c.Pos = appendRune(s.ExamType, sec.Type, c.Pos)
		return c, s, nil
	}

	return advance(c), s, nil
}

func advance(c Cursor) Cursor {
	return Cursor{Section: c.Section + 1}
}

// appendRune copies the rune of full starting at pos onto revealed.
func appendRune(revealed, full string, pos int) (string, int) {
	_, size := utf8.DecodeRuneInString(full[pos:])
	return revealed + full[pos:pos+size], pos + size
}

// checkPrefix verifies that revealed is exactly full[:c.Pos] and that Pos
// sits on a rune boundary.
func checkPrefix(c Cursor, kind SectionKind, revealed, full string) error {
	if c.Pos > len(full) {
		return &InvariantError{Cursor: c, Kind: kind, Reason: "position past end of field"}
	}
	if c.Pos < len(full) && !utf8.RuneStart(full[c.Pos]) {
		return &InvariantError{Cursor: c, Kind: kind, Reason: "position inside a rune"}
	}
	if revealed != full[:c.Pos] {
		return &InvariantError{Cursor: c, Kind: kind, Reason: "revealed text is not the prefix at position"}
	}
	return nil
}
