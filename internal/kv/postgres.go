package kv

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// Postgres persists documents in a single key-value table. Useful where a
// deployment already runs Postgres and does not want a second store for the
// association index.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS portal_kv (
//	    key   TEXT PRIMARY KEY,
//	    value TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an externally managed database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres opens a lib/pq connection for the given DSN and verifies it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "ping postgres")
	}
	return db, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM portal_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dErrors.Wrap(err, dErrors.CodeUnavailable, "postgres get")
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO portal_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`
	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "postgres set")
	}
	return nil
}
