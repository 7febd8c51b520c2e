package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/VigneshAMPT001/kind-ui/utils"
)

// PostgresWriter persists snapshots to PostgreSQL.
type PostgresWriter struct {
	*sqlStore
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, maxAttempts int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := utils.RetryConfig{MaxAttempts: maxAttempts, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres: ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, err
	}

	pw := &PostgresWriter{sqlStore: &sqlStore{db: db, dialect: postgresDialect}}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return pw, nil
}
