package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Job struct {
	ID       int64
	EventID  int64
	Kind     string
	RunAt    time.Time
	JobKey   string
	SentAt   *time.Time
	ChatID   int64
	Activity string
	Notes    *string
	Event    time.Time
	Snoozes  int
}

type JobsRepo interface {
	Create(ctx context.Context, eventID int64, kind string, runAt time.Time, key string) error
	Due(ctx context.Context, now time.Time, limit int) ([]Job, error)
	MarkSent(ctx context.Context, jobID int64) error
	DeleteForEvent(ctx context.Context, eventID int64) ([]string, error)
}

type jobsPG struct{ db *pgxpool.Pool }

func (s *Storage) Jobs() JobsRepo { return &jobsPG{s.pool} }

func (r *jobsPG) Create(ctx context.Context, eventID int64, kind string, runAt time.Time, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO reminder_jobs (event_id, kind, run_at, job_key)
VALUES ($1,$2,$3,$4)
ON CONFLICT (job_key) DO NOTHING`
	_, err := r.db.Exec(ctx, q, eventID, kind, runAt, key)
	return errors.Wrapf(err, "create job event %d", eventID)
}

// Due returns unsent jobs of active events whose run time has come.
func (r *jobsPG) Due(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
SELECT j.id, j.event_id, j.kind, j.run_at, j.job_key, j.sent_at,
       e.chat_id, e.activity, e.notes, e.event_time, e.snooze_count
FROM reminder_jobs j
JOIN events e ON e.id=j.event_id
WHERE j.sent_at IS NULL AND j.run_at <= $1 AND e.status='active'
ORDER BY j.run_at
LIMIT $2`
	rows, err := r.db.Query(ctx, q, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, "due jobs")
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.EventID, &j.Kind, &j.RunAt, &j.JobKey, &j.SentAt,
			&j.ChatID, &j.Activity, &j.Notes, &j.Event, &j.Snoozes); err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *jobsPG) MarkSent(ctx context.Context, jobID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `UPDATE reminder_jobs SET sent_at=now() WHERE id=$1 AND sent_at IS NULL`
	_, err := r.db.Exec(ctx, q, jobID)
	return errors.Wrapf(err, "mark sent job %d", jobID)
}

// DeleteForEvent drops pending jobs of an event and returns their keys.
func (r *jobsPG) DeleteForEvent(ctx context.Context, eventID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `DELETE FROM reminder_jobs WHERE event_id=$1 AND sent_at IS NULL RETURNING job_key`
	rows, err := r.db.Query(ctx, q, eventID)
	if err != nil {
		return nil, errors.Wrapf(err, "delete jobs event %d", eventID)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "scan job key")
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
