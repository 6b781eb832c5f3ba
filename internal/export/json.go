// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/triage-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// Consultation is the exported JSON document.
type Consultation struct {
	Timestamp  time.Time        `json:"timestamp"`
	Messages   []*model.Message `json:"messages"`
	ExportType string           `json:"export_type"`
}

// JSONExporter writes the consultation document.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export encodes every message of conv, welcome message included.
func (e *JSONExporter) Export(conv *model.Conversation, now time.Time) ([]byte, error) {
	if conv == nil {
		return nil, ErrNoConversation
	}
	doc := Consultation{
		Timestamp:  now,
		Messages:   conv.Messages,
		ExportType: ExportType,
	}
	if doc.Messages == nil {
		doc.Messages = []*model.Message{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
