package visitlog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface check.
var _ Store = (*PGStore)(nil)

const migrateDDL = `
CREATE TABLE IF NOT EXISTS visit_events (
    id         BIGSERIAL PRIMARY KEY,
    ts         TIMESTAMPTZ NOT NULL,
    event_type TEXT        NOT NULL,
    exhibit_id TEXT        NOT NULL DEFAULT '',
    detail     TEXT        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS visit_events_ts_idx ON visit_events (ts DESC);
`

// PGStore is a PostgreSQL-backed [Store]. It holds a single [pgxpool.Pool]
// and is safe for concurrent use.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a new PGStore, establishes a connection pool to the
// database at dsn and ensures the visit_events table exists.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("visitlog: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("visitlog: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("visitlog: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, migrateDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("visitlog: migrate: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Record implements [Store].
func (s *PGStore) Record(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO visit_events (ts, event_type, exhibit_id, detail) VALUES ($1, $2, $3, $4)`,
		e.Timestamp, string(e.Type), e.ExhibitID, e.Detail)
	if err != nil {
		return fmt.Errorf("visitlog: record %s: %w", e.Type, err)
	}
	return nil
}

// Recent implements [Store]. Events are returned newest first.
func (s *PGStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT ts, event_type, exhibit_id, detail FROM visit_events ORDER BY ts DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("visitlog: query recent: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e   Event
			typ string
		)
		if err := rows.Scan(&e.Timestamp, &typ, &e.ExhibitID, &e.Detail); err != nil {
			return nil, fmt.Errorf("visitlog: scan event: %w", err)
		}
		e.Type = EventType(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("visitlog: iterate events: %w", err)
	}
	return out, nil
}

// Close releases all connections held by the underlying connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}
