// Package audit writes completed exports to an append-only PostgreSQL
// table. It is optional: without a database the server records nothing.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/BearingSpec/internal/config"
	"github.com/JonMunkholm/BearingSpec/internal/core"
)

// DBTX is the subset of pgxpool.Pool the recorder uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createExportLog = `
CREATE TABLE IF NOT EXISTS export_log (
    id             UUID PRIMARY KEY,
    session_id     UUID        NOT NULL,
    format         TEXT        NOT NULL,
    filename       TEXT        NOT NULL,
    row_count      INTEGER     NOT NULL,
    words          INTEGER     NOT NULL,
    consumed_after INTEGER     NOT NULL,
    word_limit     INTEGER     NOT NULL,
    exported_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS export_log_exported_at_idx ON export_log (exported_at);
`

const insertExport = `
INSERT INTO export_log (
    id, session_id, format, filename, row_count, words, consumed_after, word_limit, exported_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// DefaultWriteTimeout bounds a single insert.
const DefaultWriteTimeout = 3 * time.Second

// PostgresRecorder implements core.ExportRecorder.
type PostgresRecorder struct {
	db      DBTX
	timeout time.Duration
}

// NewPostgresRecorder creates a recorder writing through db.
func NewPostgresRecorder(db DBTX, timeout time.Duration) *PostgresRecorder {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &PostgresRecorder{db: db, timeout: timeout}
}

// EnsureSchema creates the export_log table when it does not exist.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createExportLog); err != nil {
		return fmt.Errorf("create export_log: %w", err)
	}
	return nil
}

// RecordExport inserts one export. The insert outlives a cancelled
// request but not the write timeout.
func (r *PostgresRecorder) RecordExport(ctx context.Context, rec core.ExportRecord) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, insertExport,
		rec.ID,
		rec.SessionID,
		string(rec.Format),
		rec.Filename,
		rec.Rows,
		rec.Words,
		rec.ConsumedAfter,
		rec.Limit,
		rec.ExportedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert export %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert export %s: %d rows affected", rec.ID, tag.RowsAffected())
	}
	return nil
}

// Connect opens and pings a pool sized by cfg.
func Connect(ctx context.Context, cfg config.AuditConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
