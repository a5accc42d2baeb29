// Package store persists pipeline runs and their result tables in SQLite so
// the dashboard and the stats commands can work without re-parsing the raw
// spreadsheets.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas,
// and creates the schema if it is missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			questionnaire_path TEXT NOT NULL,
			game_log_path TEXT NOT NULL,
			students INTEGER NOT NULL,
			cluster_k INTEGER NOT NULL,
			silhouette REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS behavior_records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			class TEXT NOT NULL,
			stu_num TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, class, stu_num)
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge_records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			class TEXT NOT NULL,
			stu_num TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, class, stu_num)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PLAYLENS_DB environment variable
// 2. $XDG_DATA_HOME/playlens/playlens.db
// 3. ~/.local/share/playlens/playlens.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PLAYLENS_DB"); p != "" {
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

	p := filepath.Join(dataHome, "playlens", "playlens.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
