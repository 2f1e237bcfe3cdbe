package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("storage: not found")

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open pool")
	}
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() { s.pool.Close() }

func (s *Storage) Now(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, `SELECT now()`).Scan(&t)
	return t, err
}

const schema = `
CREATE TABLE IF NOT EXISTS chat_settings (
    chat_id    BIGINT PRIMARY KEY,
    time_zone  TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
    id           BIGSERIAL PRIMARY KEY,
    chat_id      BIGINT NOT NULL REFERENCES chat_settings(chat_id),
    event_time   TIMESTAMPTZ NOT NULL,
    activity     TEXT NOT NULL,
    notes        TEXT,
    status       TEXT NOT NULL DEFAULT 'active',
    snooze_count INT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS events_chat_time_idx ON events (chat_id, event_time);

CREATE TABLE IF NOT EXISTS reminder_jobs (
    id       BIGSERIAL PRIMARY KEY,
    event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    kind     TEXT NOT NULL,
    run_at   TIMESTAMPTZ NOT NULL,
    job_key  TEXT NOT NULL UNIQUE,
    sent_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS reminder_jobs_due_idx ON reminder_jobs (run_at) WHERE sent_at IS NULL;
`

// Migrate creates the tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, schema)
	return errors.Wrap(err, "migrate")
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Storage) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
