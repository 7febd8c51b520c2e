package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteWriter persists snapshots to a local SQLite database file.
type SQLiteWriter struct {
	*sqlStore
}

// NewSQLiteWriter opens (or creates) the database at path and migrates it.
// ":memory:" is accepted for throwaway databases.
func NewSQLiteWriter(ctx context.Context, path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// one connection: sqlite serializes writers and ":memory:" is per-connection
	db.SetMaxOpenConns(1)

	sw := &SQLiteWriter{sqlStore: &sqlStore{db: db, dialect: sqliteDialect}}
	if err := sw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sw, nil
}
