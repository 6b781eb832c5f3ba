// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat consultation to disk.
//
// Two formats are supported:
//
//   - JSON: the consultation document with a timestamp, the messages and
//     export_type "medical_consultation".
//   - Markdown: a readable transcript with one heading per message.
//
// Files are named medical-consultation-YYYY-MM-DD with the format's
// extension and written atomically.
//
// # Usage
//
//	path, err := export.ToFile(conv, export.NewJSONExporter(), export.DefaultOptions())
package export
