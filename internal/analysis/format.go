// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"fmt"
	"strings"
)

// Disclaimer closes every formatted reply.
const Disclaimer = "⚠️ **Important Medical Disclaimer:**\n" +
	"This AI analysis is based on medical databases and provides general information only. " +
	"It cannot replace professional medical advice, diagnosis, or treatment. " +
	"If your symptoms are severe, persistent, or concerning, please consult with a qualified " +
	"healthcare professional immediately. In case of emergency, call 911."

// FormatReply renders a result as the markdown chat reply that is typed out in
// the chat view. Absent fields are skipped; the disclaimer is always present.
func FormatReply(r *Result) string {
	var sb strings.Builder
	sb.WriteString("🔬 **Medical Analysis Complete**\n\n")

	if r == nil {
		sb.WriteString(Disclaimer)
		return sb.String()
	}

	if r.SessionID != "" {
		fmt.Fprintf(&sb, "📋 **Session ID:** %s\n\n", r.SessionID)
	}

	if len(r.PossibleDiagnoses) > 0 {
		sb.WriteString("🩺 **Possible Diagnoses:**\n")
		for i, d := range r.PossibleDiagnoses {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, d)
		}
		sb.WriteString("\n")
	}

	if r.Explanation != "" {
		fmt.Fprintf(&sb, "📖 **Medical Explanation:**\n%s\n\n", r.Explanation)
	}

	if r.ExamName != "" {
		fmt.Fprintf(&sb, "🔍 **Recommended Examination:** %s\n", r.ExamName)
	}

	if r.ExamType != "" {
		fmt.Fprintf(&sb, "📊 **Examination Type:** %s\n\n", r.ExamType)
	}

	sb.WriteString(Disclaimer)
	return sb.String()
}

// FailureReply is the assistant message shown when a chat request fails.
func FailureReply(err error) string {
	return fmt.Sprintf("I apologize, but I'm currently unable to connect to the medical database. "+
		"Please check your internet connection and try again. Error: %v\n\n"+
		"For immediate medical concerns, please contact your healthcare provider or emergency services.", err)
}
