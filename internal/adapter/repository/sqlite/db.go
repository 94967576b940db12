// Package sqlite stores the ledger in a single SQLite file. It is the default
// store for a single workstation deployment.
package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed schema.sql
var schema string

// timestampLayout is fixed width so stored timestamps sort as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps the sqlx connection pool
type DB struct {
	*sqlx.DB
}

// NewDB opens (and creates if needed) the database file at path.
// Write transactions take the database lock up front (_txlock=immediate), so
// two ledger applies never interleave between their read and their write.
func NewDB(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the tables the repositories need. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.DB.Close()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
