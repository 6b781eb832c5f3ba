// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/triage-tui/internal/model"
	"github.com/jeranaias/triage-tui/internal/util"
)

// ExportType identifies consultation documents.
const ExportType = "medical_consultation"

// FilePrefix starts every exported file name.
const FilePrefix = "medical-consultation"

// ErrNoConversation is returned for a nil conversation.
var ErrNoConversation = errors.New("conversation is nil")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to a file format.
type Exporter interface {
	// Export renders conv. now stamps the document.
	Export(conv *model.Conversation, now time.Time) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// Options configures ToFile.
type Options struct {
	// OutputDir receives the file (default: current directory).
	OutputDir string

	// Now stamps the document and the file name (default: time.Now).
	Now func() time.Time
}

// DefaultOptions writes to the working directory.
func DefaultOptions() *Options {
	return &Options{OutputDir: ".", Now: time.Now}
}

// Filename returns the consultation file name for day.
func Filename(day time.Time, ext string) string {
	return FilePrefix + "-" + day.Format("2006-01-02") + ext
}

// ToFile renders conv with exporter and writes it into opts.OutputDir.
// An existing file for the same day is replaced.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if conv == nil {
		return "", ErrNoConversation
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	dir := opts.OutputDir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	stamp := now()
	content, err := exporter.Export(conv, stamp)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	path := filepath.Join(dir, Filename(stamp, exporter.FileExtension()))
	if err := util.AtomicWriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ForFormat returns the exporter for "json" or "md"/"markdown".
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONExporter(), nil
	case "md", "markdown":
		return NewMarkdownExporter(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
