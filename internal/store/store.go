package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Scope names. The session scope holds the in-progress session snapshot and
// is cleared when a session is finished or abandoned. The local scope holds
// durable history and the wrong-question ledger.
const (
	ScopeSession = "session"
	ScopeLocal   = "local"
)

const kvTable = "kv_entries"

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	scope      TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (scope, key)
)`

// Store owns the SQLite connection that backs every scope.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the key/value table.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Scope returns a KV whose keys are isolated under the given scope name.
func (s *Store) Scope(name string) KV {
	return &sqlKV{db: s.db, scope: name}
}

// Session is shorthand for Scope(ScopeSession).
func (s *Store) Session() KV { return s.Scope(ScopeSession) }

// Local is shorthand for Scope(ScopeLocal).
func (s *Store) Local() KV { return s.Scope(ScopeLocal) }

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. FLASHMATH_DB environment variable
// 2. $XDG_DATA_HOME/flashmath/flashmath.db
// 3. ~/.local/share/flashmath/flashmath.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("FLASHMATH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "flashmath", "flashmath.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
