// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/model"
)

var fixedNow = time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUser("I have a fever and a cough")
	conv.AddReply("Possible flu.", &analysis.Result{SessionID: "s1", PossibleDiagnoses: []string{"Flu"}})
	conv.AddError("Sorry, I could not reach the service.")
	return conv
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "medical-consultation-2025-03-09.json", Filename(fixedNow, ".json"))
	assert.Equal(t, "medical-consultation-2025-03-09.md", Filename(fixedNow, ".md"))
}

func TestJSONExporter(t *testing.T) {
	conv := sampleConversation()
	data, err := NewJSONExporter().Export(conv, fixedNow)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "medical_consultation", doc["export_type"])
	assert.Equal(t, "2025-03-09T14:30:00Z", doc["timestamp"])

	msgs, ok := doc["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)

	first := msgs[0].(map[string]any)
	assert.Equal(t, "assistant", first["type"])
	assert.Equal(t, model.WelcomeMessage, first["content"])
	assert.NotEmpty(t, first["id"])

	second := msgs[1].(map[string]any)
	assert.Equal(t, "user", second["type"])
}

func TestMarkdownExporter(t *testing.T) {
	data, err := NewMarkdownExporter().Export(sampleConversation(), fixedNow)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# Medical Consultation\n"))
	assert.Contains(t, out, "- **Messages**: 4")
	assert.Contains(t, out, "### You <sub>")
	assert.Contains(t, out, "### Medical AI <sub>")
	assert.Contains(t, out, "> Sorry, I could not reach the service.")
	assert.Contains(t, out, "Important Medical Disclaimer")
}

func TestExporters_NilConversation(t *testing.T) {
	for _, e := range []Exporter{NewJSONExporter(), NewMarkdownExporter()} {
		_, err := e.Export(nil, fixedNow)
		assert.ErrorIs(t, err, ErrNoConversation)
	}
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	opts := &Options{OutputDir: dir, Now: func() time.Time { return fixedNow }}

	path, err := ToFile(sampleConversation(), NewJSONExporter(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "medical-consultation-2025-03-09.json"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Same day replaces the file.
	conv := model.NewConversation()
	path2, err := ToFile(conv, NewJSONExporter(), opts)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Consultation
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Messages, 1)

	_, err = ToFile(nil, NewJSONExporter(), opts)
	assert.ErrorIs(t, err, ErrNoConversation)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"", ".json", false},
		{"json", ".json", false},
		{"MD", ".md", false},
		{"markdown", ".md", false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
		})
	}
}
