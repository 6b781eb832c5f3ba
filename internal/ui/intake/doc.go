// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intake implements the symptom assessment form.
//
// The form collects the primary symptom, a free-text description, a 1-10
// severity, a duration and any additional symptoms. Submitting a valid form
// emits a SubmitMsg carrying the composed note; an incomplete form raises an
// error toast instead.
//
// Keys:
//
//	tab / shift+tab   move between fields
//	left / right      change severity or duration, move in the checklist
//	up / down         move in the checklist
//	space             toggle the highlighted symptom
//	enter             next field, toggle, or press the focused button
//	ctrl+s            submit from anywhere
package intake
