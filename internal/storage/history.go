// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jeranaias/triage-tui/internal/analysis"
)

// DefaultMaxEntries bounds the history table.
const DefaultMaxEntries = 1000

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("history entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  INTEGER NOT NULL,
	note        TEXT    NOT NULL,
	session_id  TEXT    NOT NULL DEFAULT '',
	result_json TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// =============================================================================
// HISTORY
// =============================================================================

// Entry is one recorded analysis.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Note      string
	SessionID string
	Result    analysis.Result
}

// History stores analyses in SQLite. It is safe for concurrent use.
type History struct {
	db         *sql.DB
	log        *zap.Logger
	maxEntries int
	now        func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string, log *zap.Logger) (*History, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &History{
		db:         db,
		log:        log.Named("history"),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// SetMaxEntries changes how many entries are kept; zero keeps everything.
func (h *History) SetMaxEntries(n int) {
	h.maxEntries = n
}

// Record stores a completed analysis and prunes the oldest entries.
func (h *History) Record(ctx context.Context, note string, res analysis.Result) (int64, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (created_at, note, session_id, result_json) VALUES (?, ?, ?, ?)`,
		h.now().UnixMilli(), note, res.SessionID, string(data))
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert id: %w", err)
	}

	if h.maxEntries > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM analyses WHERE id NOT IN (SELECT id FROM analyses ORDER BY id DESC LIMIT ?)`,
			h.maxEntries); err != nil {
			return 0, fmt.Errorf("failed to prune history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis: %w", err)
	}

	h.log.Debug("analysis recorded", zap.Int64("id", id), zap.String("session_id", res.SessionID))
	return id, nil
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, created_at, note, session_id, result_json FROM analyses ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with id.
func (h *History) Get(ctx context.Context, id int64) (Entry, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, created_at, note, session_id, result_json FROM analyses WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Count returns the number of stored entries.
func (h *History) Count(ctx context.Context) (int, error) {
	var n int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear deletes every entry and returns how many were removed.
func (h *History) Clear(ctx context.Context) (int64, error) {
	r, err := h.db.ExecContext(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, _ := r.RowsAffected()
	h.log.Info("history cleared", zap.Int64("entries", n))
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e       Entry
		created int64
		data    string
	)
	if err := s.Scan(&e.ID, &created, &e.Note, &e.SessionID, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.CreatedAt = time.UnixMilli(created)
	if err := json.Unmarshal([]byte(data), &e.Result); err != nil {
		return Entry{}, fmt.Errorf("entry %d has corrupt result: %w", e.ID, err)
	}
	return e, nil
}
