package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	_ "modernc.org/sqlite"
)

// SQLiteSnapshotter keeps the store snapshot in a SQLite database instead
// of a flat JSON document: one metadata row plus one row per entry,
// replaced wholesale inside a single transaction on every flush.
// Use ":memory:" for a throwaway in-memory database.
type SQLiteSnapshotter struct {
	db *sql.DB
}

// Compile-time check to ensure SQLiteSnapshotter implements Snapshotter.
var _ Snapshotter = (*SQLiteSnapshotter)(nil)

// NewSQLiteSnapshotter opens (or creates) a SQLite-backed snapshotter.
func NewSQLiteSnapshotter(path string) (*SQLiteSnapshotter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS snapshot (
		id          TEXT NOT NULL,
		path        TEXT NOT NULL,
		last_update INTEGER NOT NULL,
		last_write  INTEGER NOT NULL,
		size        INTEGER NOT NULL,
		write_error TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS entries (
		key     TEXT PRIMARY KEY,
		time    INTEGER NOT NULL,
		version INTEGER NOT NULL,
		value   TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteSnapshotter{db: db}, nil
}

// Write replaces the stored snapshot in a single transaction.
func (s *SQLiteSnapshotter) Write(snap *Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot"); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO snapshot (id, path, last_update, last_write, size, write_error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Path,
		snap.Metrics.LastUpdate, snap.Metrics.LastWrite,
		snap.Metrics.Size, snap.Metrics.WriteError,
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	for key, ent := range snap.Values {
		_, err := tx.Exec(
			"INSERT INTO entries (key, time, version, value) VALUES (?, ?, ?, ?)",
			key, ent.Time, ent.Version, ent.Value,
		)
		if err != nil {
			return fmt.Errorf("write entry %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Read reassembles the stored snapshot. A database with no snapshot row
// reports fs.ErrNotExist, mirroring a missing snapshot file.
func (s *SQLiteSnapshotter) Read() (*Snapshot, error) {
	snap := &Snapshot{Values: make(map[string]Entry)}

	err := s.db.QueryRow(
		"SELECT id, path, last_update, last_write, size, write_error FROM snapshot",
	).Scan(
		&snap.ID, &snap.Path,
		&snap.Metrics.LastUpdate, &snap.Metrics.LastWrite,
		&snap.Metrics.Size, &snap.Metrics.WriteError,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read snapshot: %w", fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	rows, err := s.db.Query("SELECT key, time, version, value FROM entries")
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var ent Entry
		if err := rows.Scan(&key, &ent.Time, &ent.Version, &ent.Value); err != nil {
			return nil, fmt.Errorf("read entries: %w", err)
		}
		snap.Values[key] = ent
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	return snap, nil
}

// Close shuts down the database.
func (s *SQLiteSnapshotter) Close() error {
	return s.db.Close()
}
