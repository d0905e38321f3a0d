// Package archive records which files have already been downloaded so
// later runs can skip them. Entries live in a single sqlite table.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Archive is a set of item keys backed by sqlite.
// A nil *Archive is an empty archive that records nothing.
type Archive struct {
	db   *sql.DB
	path string
}

// Open opens or creates the archive database at path
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS archive (
		entry TEXT PRIMARY KEY
	) WITHOUT ROWID`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive table: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

// Path returns the database file
func (a *Archive) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Has reports whether key was recorded
func (a *Archive) Has(ctx context.Context, key string) (bool, error) {
	if a == nil {
		return false, nil
	}
	var n int
	err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive WHERE entry = ?", key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("archive lookup %q: %w", key, err)
	}
	return n > 0, nil
}

// Add records key. Adding an existing key is a no-op.
func (a *Archive) Add(ctx context.Context, key string) error {
	if a == nil {
		return nil
	}
	_, err := a.db.ExecContext(ctx, "INSERT OR IGNORE INTO archive (entry) VALUES (?)", key)
	if err != nil {
		return fmt.Errorf("archive insert %q: %w", key, err)
	}
	return nil
}

// Count returns the number of recorded keys
func (a *Archive) Count(ctx context.Context) (int, error) {
	if a == nil {
		return 0, nil
	}
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive").Scan(&n); err != nil {
		return 0, fmt.Errorf("archive count: %w", err)
	}
	return n, nil
}

func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.db.Close()
}
