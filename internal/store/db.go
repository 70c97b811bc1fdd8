package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// memoryPath is the DSN for a private in-memory ledger.
const memoryPath = ":memory:"

// DB wraps a sql.DB connection to the sweep ledger.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the ledger at dbPath, creating its parent
// directory, and migrates it to the current schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	return open(dbPath,
		"PRAGMA journal_mode=WAL",
		// Two sweep runs may finish at the same moment.
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	)
}

// OpenInMemory opens an in-memory ledger, useful for testing.
func OpenInMemory() (*DB, error) {
	return open(memoryPath, "PRAGMA foreign_keys=ON")
}

func open(dsn string, pragmas ...string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == memoryPath {
		// Each connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{conn: conn, path: dsn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the file the ledger lives in, or ":memory:".
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
