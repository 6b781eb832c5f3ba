// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intake

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/util"
)

const (
	checklistRows = 5
	checklistCell = 24
)

// View renders the form.
func (m Model) View() string {
	t := m.theme
	blocks := []string{
		t.PanelTitle.Render("Comprehensive Symptom Assessment"),
		t.FormHint.Render("Provide detailed information about your symptoms for accurate AI-powered medical analysis."),
		"",
		m.label(FieldPrimary, "What is your main symptom?", true),
		m.primary.View(),
		"",
		m.label(FieldDescription, "Detailed Description", true),
		m.description.View(),
		"",
		m.label(FieldSeverity, fmt.Sprintf("Pain/Severity Level: %d/10", m.severity), false),
		m.severityView(),
		"",
		m.label(FieldDuration, "How long have you had these symptoms?", false),
		m.durationView(),
		"",
		m.label(FieldSymptoms, fmt.Sprintf("Additional Symptoms (%d selected)", len(m.selected)), false),
		m.checklistView(),
		"",
		m.buttonsView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m Model) label(f Field, text string, required bool) string {
	style := m.theme.FormLabel
	if m.focus == f {
		style = m.theme.FormLabelFocus
		text = "› " + text
	}
	out := style.Render(text)
	if required {
		out += m.theme.FormRequired.Render(" *")
	}
	return out
}

func (m Model) severityView() string {
	var sb strings.Builder
	for i := analysis.MinSeverity; i <= analysis.MaxSeverity; i++ {
		if i == m.severity {
			sb.WriteString(m.theme.OptionSelected.Render("●"))
		} else {
			sb.WriteString(m.theme.Option.Render("─"))
		}
	}
	return sb.String() + "  " + m.theme.FormHint.Render("Mild (1)  Moderate (5)  Severe (10)")
}

func (m Model) durationView() string {
	d := analysis.Durations[m.duration]
	style := m.theme.Option
	if d != analysis.DurationUnset {
		style = m.theme.OptionSelected
	}
	return m.theme.FormHint.Render("◂ ") + style.Render(d.Label()) + m.theme.FormHint.Render(" ▸")
}

func (m Model) columns() int {
	if m.width <= 0 {
		return 3
	}
	return max(m.width/checklistCell, 1)
}

func (m Model) checklistView() string {
	cols := m.columns()
	symptoms := analysis.CommonSymptoms
	rows := (len(symptoms) + cols - 1) / cols

	lines := make([]string, 0, checklistRows+1)
	for r := m.scroll; r < rows && r < m.scroll+checklistRows; r++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(symptoms) {
				break
			}
			box := "[ ] "
			style := m.theme.Option
			if slices.Contains(m.selected, symptoms[i]) {
				box = "[x] "
				style = m.theme.OptionSelected
			}
			cell := util.PadRight(util.Truncate(box+symptoms[i], checklistCell-1), checklistCell)
			if m.focus == FieldSymptoms && i == m.cursor {
				style = style.Reverse(true)
			}
			sb.WriteString(style.Render(cell))
		}
		lines = append(lines, sb.String())
	}
	if rows > checklistRows {
		lines = append(lines, m.theme.FormHint.Render(
			fmt.Sprintf("rows %d-%d of %d", m.scroll+1, min(m.scroll+checklistRows, rows), rows)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) buttonsView() string {
	if m.confirming {
		return m.theme.StatusError.Render("Clear all form data? (y/n)")
	}

	clearBtn := m.theme.Button
	if m.focus == FieldClear {
		clearBtn = m.theme.ButtonFocus
	}
	submit := m.theme.Button
	if m.focus == FieldSubmit {
		submit = m.theme.ButtonFocus
	}
	label := "Get AI Analysis"
	if m.busy {
		label = "Analyzing..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, clearBtn.Render("Clear Form"), "  ", submit.Render(label))
}
