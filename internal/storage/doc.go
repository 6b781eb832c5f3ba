// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps a local SQLite history of completed analyses.
//
// # Usage
//
//	h, err := storage.Open(path, log)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	id, err := h.Record(ctx, note, result)
//	recent, err := h.Recent(ctx, 20)
//
// The database uses the pure-Go modernc.org/sqlite driver, so no cgo is
// required.
package storage
