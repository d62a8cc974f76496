// Package store persists persons, journals and the dose history in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	medication_data TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS user_journals (
	entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	journal_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dose_log (
	log_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	medication TEXT NOT NULL,
	slot_time TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('taken','skipped')),
	logged_at DATETIME NOT NULL
);
`

// Store wraps the SQLite database. Every read-modify-write against a person
// record goes through writeMu so a human edit and a scan-triggered decrement
// cannot interleave and lose an update.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenDefault opens the database in the per-user data directory.
func OpenDefault() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return Open(filepath.Join(home, ".medication-time", "medication_time.db"))
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
