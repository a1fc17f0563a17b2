package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"rosterclean/internal/roster"
)

// schema is applied on startup, one statement per Exec (pgx's extended
// protocol rejects multi-statement strings). Run history is append-only
// metadata, so a plain table with no migrations machinery is enough.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cleaning_runs (
		id                UUID PRIMARY KEY,
		filename          TEXT NOT NULL,
		started_at        TIMESTAMPTZ NOT NULL,
		duration_ms       BIGINT NOT NULL,
		input_rows        INTEGER NOT NULL,
		output_rows       INTEGER NOT NULL,
		dropped_phone     INTEGER NOT NULL,
		dropped_duplicate INTEGER NOT NULL,
		dropped_miles     INTEGER NOT NULL,
		dropped_status    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS cleaning_runs_started_at_idx ON cleaning_runs (started_at DESC)`,
}

// PostgresStore persists run entries in Postgres. Used when
// DATABASE_URL is configured; otherwise the in-memory store serves.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the store and ensures its schema exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

// Record inserts one run entry.
func (s *PostgresStore) Record(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cleaning_runs (
			id, filename, started_at, duration_ms,
			input_rows, output_rows,
			dropped_phone, dropped_duplicate, dropped_miles, dropped_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Filename, e.StartedAt, e.Duration.Milliseconds(),
		e.Report.InputRows, e.Report.OutputRows,
		e.Report.DroppedPhone, e.Report.DroppedDuplicate,
		e.Report.DroppedMiles, e.Report.DroppedStatus,
	)
	if err != nil {
		return fmt.Errorf("record cleaning run: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, started_at, duration_ms,
		       input_rows, output_rows,
		       dropped_phone, dropped_duplicate, dropped_miles, dropped_status
		FROM cleaning_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cleaning runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var rep roster.Report
		if err := rows.Scan(
			&e.ID, &e.Filename, &e.StartedAt, &e.TookMs,
			&rep.InputRows, &rep.OutputRows,
			&rep.DroppedPhone, &rep.DroppedDuplicate,
			&rep.DroppedMiles, &rep.DroppedStatus,
		); err != nil {
			return nil, fmt.Errorf("scan cleaning run: %w", err)
		}
		e.Report = rep
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
