package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type EventStatus string

const (
	StatusActive  EventStatus = "active"
	StatusDone    EventStatus = "done"
	StatusDeleted EventStatus = "deleted"
)

type Event struct {
	ID          int64
	ChatID      int64
	EventTime   time.Time
	Activity    string
	Notes       *string
	Status      EventStatus
	SnoozeCount int
	CreatedAt   time.Time
}

type EventsRepo interface {
	Create(ctx context.Context, e *Event) (int64, error)
	Get(ctx context.Context, id int64) (Event, error)
	UpdateStatus(ctx context.Context, id int64, status EventStatus) error
	IncrementSnooze(ctx context.Context, id int64) (int, error)
	Week(ctx context.Context, chatID int64, from, to time.Time) ([]Event, error)
}

type eventsPG struct{ db *pgxpool.Pool }

func (s *Storage) Events() EventsRepo { return &eventsPG{s.pool} }

const eventColumns = `id, chat_id, event_time, activity, notes, status, snooze_count, created_at`

func (r *eventsPG) Create(ctx context.Context, e *Event) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO events (chat_id, event_time, activity, notes, status, snooze_count)
VALUES ($1,$2,$3,$4,'active',0)
RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, q, e.ChatID, e.EventTime, e.Activity, e.Notes).Scan(&id)
	return id, errors.Wrap(err, "create event")
}

func (r *eventsPG) Get(ctx context.Context, id int64) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	var e Event
	err := r.db.QueryRow(ctx, q, id).Scan(&e.ID, &e.ChatID, &e.EventTime, &e.Activity, &e.Notes, &e.Status, &e.SnoozeCount, &e.CreatedAt)
	if err != nil {
		return e, errors.Wrapf(notFound(err), "get event %d", id)
	}
	return e, nil
}

func (r *eventsPG) UpdateStatus(ctx context.Context, id int64, status EventStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.db.Exec(ctx, `UPDATE events SET status=$2 WHERE id=$1`, id, status)
	return errors.Wrapf(err, "update status event %d", id)
}

// IncrementSnooze bumps the counter and returns its new value.
func (r *eventsPG) IncrementSnooze(ctx context.Context, id int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `UPDATE events SET snooze_count = snooze_count + 1 WHERE id=$1 RETURNING snooze_count`
	var n int
	if err := r.db.QueryRow(ctx, q, id).Scan(&n); err != nil {
		return 0, errors.Wrapf(notFound(err), "snooze event %d", id)
	}
	return n, nil
}

// Week lists active events of a chat with from <= event_time <= to.
func (r *eventsPG) Week(ctx context.Context, chatID int64, from, to time.Time) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q := `SELECT ` + eventColumns + `
FROM events
WHERE chat_id=$1 AND status='active' AND event_time >= $2 AND event_time <= $3
ORDER BY event_time`
	rows, err := r.db.Query(ctx, q, chatID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "week events")
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ChatID, &e.EventTime, &e.Activity, &e.Notes, &e.Status, &e.SnoozeCount, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
