// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Duration is the coded answer to "how long have you had these symptoms".
type Duration string

const (
	DurationUnset        Duration = ""
	DurationUnderHour    Duration = "less-than-hour"
	DurationFewHours     Duration = "few-hours"
	DurationOneDay       Duration = "1-day"
	DurationTwoThreeDays Duration = "2-3-days"
	DurationOneWeek      Duration = "1-week"
	DurationTwoWeeks     Duration = "2-weeks"
	DurationOneMonth     Duration = "1-month"
	DurationLonger       Duration = "longer"
)

// Durations lists the selectable durations in display order.
var Durations = []Duration{
	DurationUnset,
	DurationUnderHour,
	DurationFewHours,
	DurationOneDay,
	DurationTwoThreeDays,
	DurationOneWeek,
	DurationTwoWeeks,
	DurationOneMonth,
	DurationLonger,
}

// Text returns the phrase used in the composed note.
func (d Duration) Text() string {
	switch d {
	case DurationUnderHour:
		return "less than 1 hour"
	case DurationFewHours:
		return "a few hours"
	case DurationOneDay:
		return "1 day"
	case DurationTwoThreeDays:
		return "2-3 days"
	case DurationOneWeek:
		return "about a week"
	case DurationTwoWeeks:
		return "2 weeks"
	case DurationOneMonth:
		return "about a month"
	case DurationLonger:
		return "longer than a month"
	default:
		return ""
	}
}

// Label returns the option shown in the duration picker.
func (d Duration) Label() string {
	switch d {
	case DurationUnset:
		return "Select duration"
	case DurationOneWeek:
		return "About a week"
	case DurationOneMonth:
		return "About a month"
	case DurationLonger:
		return "Longer than a month"
	}
	t := d.Text()
	if t == "" {
		return string(d)
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// Severity bounds on the 1-10 pain scale.
const (
	MinSeverity     = 1
	MaxSeverity     = 10
	DefaultSeverity = 5
)

// Intake is the symptom form.
type Intake struct {
	PrimarySymptom     string
	Description        string
	Severity           int
	Duration           Duration
	AdditionalSymptoms []string
}

// ErrIncompleteIntake is returned by Validate when a required field is blank.
var ErrIncompleteIntake = errors.New("please fill in the required fields")

// NewIntake returns an empty form with the default severity.
func NewIntake() Intake {
	return Intake{Severity: DefaultSeverity}
}

// Validate checks the required fields and the severity range.
func (in Intake) Validate() error {
	if strings.TrimSpace(in.PrimarySymptom) == "" || strings.TrimSpace(in.Description) == "" {
		return ErrIncompleteIntake
	}
	if in.Severity < MinSeverity || in.Severity > MaxSeverity {
		return fmt.Errorf("severity %d out of range %d-%d", in.Severity, MinSeverity, MaxSeverity)
	}
	return nil
}

// BuildNote composes the free-text note submitted for analysis.
func BuildNote(in Intake) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Patient presents with primary symptom: %s.", strings.TrimSpace(in.PrimarySymptom))

	if d := strings.TrimSpace(in.Description); d != "" {
		fmt.Fprintf(&sb, " Detailed description: %s", d)
	}

	fmt.Fprintf(&sb, " Severity level: %d/10 on pain scale.", in.Severity)

	if t := in.Duration.Text(); t != "" {
		fmt.Fprintf(&sb, " Duration of symptoms: %s.", t)
	}

	if len(in.AdditionalSymptoms) > 0 {
		fmt.Fprintf(&sb, " Additional associated symptoms include: %s.", strings.Join(in.AdditionalSymptoms, ", "))
	}

	sb.WriteString(" Please provide comprehensive medical analysis including possible diagnoses, " +
		"recommended examinations, and medical explanations based on the symptom profile.")
	return sb.String()
}

// CommonSymptoms are offered as additional-symptom choices on the intake form.
var CommonSymptoms = []string{
	"Headache",
	"Migraine",
	"Fever",
	"Chills",
	"Cough",
	"Sore throat",
	"Runny nose",
	"Congestion",
	"Fatigue",
	"Weakness",
	"Nausea",
	"Vomiting",
	"Diarrhea",
	"Constipation",
	"Abdominal pain",
	"Chest pain",
	"Shortness of breath",
	"Dizziness",
	"Lightheadedness",
	"Joint pain",
	"Muscle aches",
	"Back pain",
	"Neck pain",
	"Swelling",
	"Numbness",
	"Tingling",
	"Skin rash",
	"Itching",
	"Loss of appetite",
	"Weight loss",
	"Weight gain",
	"Insomnia",
	"Excessive sleepiness",
	"Memory problems",
	"Confusion",
	"Anxiety",
	"Depression",
	"Mood changes",
	"Vision problems",
	"Hearing problems",
	"Tinnitus",
	"Hair loss",
	"Excessive thirst",
	"Frequent urination",
	"Irregular heartbeat",
	"High blood pressure",
	"Low blood pressure",
	"Sweating",
	"Hot flashes",
	"Cold intolerance",
}
