// Package scheduler plans reminder jobs for events and manages their
// lifecycle: initial planning, snoozing and cancellation. Jobs are rows in
// storage; the telegram notifier polls and delivers them.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ReminderBot/internal/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Kind string

const (
	KindDayBefore  Kind = "day_before"
	KindHourBefore Kind = "hour_before"
	KindSoon       Kind = "soon"
	KindAtTime     Kind = "at_time"
	KindSnooze     Kind = "snooze"
)

const (
	MaxSnoozes    = 25
	SnoozeDelay   = time.Hour
	soonDelay     = 5 * time.Second
	dayBeforeHour = 12
)

var (
	ErrSnoozeLimit = errors.New("snooze limit reached")
	ErrInactive    = errors.New("event is not active")
)

type Planned struct {
	Kind  Kind
	RunAt time.Time
}

// ComputeJobTimes plans reminders for an event at eventTime:
//   - day_before at 12:00 on the previous day, if that is still ahead;
//   - hour_before an hour ahead of the event, if the event is more than an hour away;
//   - soon a few seconds from now, if the event is within the hour;
//   - at_time at the event itself.
//
// Events at or before now get no jobs.
func ComputeJobTimes(eventTime, now time.Time) []Planned {
	delta := eventTime.Sub(now)
	if delta <= 0 {
		return nil
	}

	var out []Planned
	prev := eventTime.AddDate(0, 0, -1)
	dayBefore := time.Date(prev.Year(), prev.Month(), prev.Day(), dayBeforeHour, 0, 0, 0, eventTime.Location())
	if dayBefore.After(now) {
		out = append(out, Planned{KindDayBefore, dayBefore})
	}

	if delta > time.Hour {
		out = append(out, Planned{KindHourBefore, eventTime.Add(-time.Hour)})
	} else {
		out = append(out, Planned{KindSoon, now.Add(soonDelay)})
	}

	return append(out, Planned{KindAtTime, eventTime})
}

// NewJobKey returns an identifier like "reminder_3f2a9c01b7de".
func NewJobKey() string {
	return "reminder_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

type JobStore interface {
	Create(ctx context.Context, eventID int64, kind string, runAt time.Time, key string) error
	DeleteForEvent(ctx context.Context, eventID int64) ([]string, error)
}

type EventStore interface {
	Get(ctx context.Context, id int64) (storage.Event, error)
	IncrementSnooze(ctx context.Context, id int64) (int, error)
}

type Service struct {
	jobs   JobStore
	events EventStore
	log    *zap.SugaredLogger
	newKey func() string
}

func New(jobs JobStore, events EventStore, log *zap.SugaredLogger) *Service {
	return &Service{jobs: jobs, events: events, log: log, newKey: NewJobKey}
}

// ScheduleEvent stores one job per planned reminder.
func (s *Service) ScheduleEvent(ctx context.Context, eventID int64, eventTime, now time.Time) error {
	for _, p := range ComputeJobTimes(eventTime, now) {
		key := s.newKey()
		if err := s.jobs.Create(ctx, eventID, string(p.Kind), p.RunAt, key); err != nil {
			return errors.Wrapf(err, "schedule %s", p.Kind)
		}
		s.log.Infof("scheduled %s for event %d at %s (job %s)", p.Kind, eventID, p.RunAt.Format(time.RFC3339), key)
	}
	return nil
}

// Snooze schedules another reminder an hour from now and returns the new
// snooze count.
func (s *Service) Snooze(ctx context.Context, eventID int64, now time.Time) (int, error) {
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if ev.Status != storage.StatusActive {
		return ev.SnoozeCount, ErrInactive
	}
	if ev.SnoozeCount >= MaxSnoozes {
		return ev.SnoozeCount, ErrSnoozeLimit
	}
	n, err := s.events.IncrementSnooze(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if n > MaxSnoozes {
		return n, ErrSnoozeLimit
	}

	runAt := now.Add(SnoozeDelay)
	key := s.newKey()
	if err := s.jobs.Create(ctx, eventID, string(KindSnooze), runAt, key); err != nil {
		return n, errors.Wrap(err, "schedule snooze")
	}
	s.log.Infof("snoozed event %d (count=%d), next at %s", eventID, n, runAt.Format(time.RFC3339))
	return n, nil
}

// Cancel removes the pending jobs of an event.
func (s *Service) Cancel(ctx context.Context, eventID int64) error {
	keys, err := s.jobs.DeleteForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	s.log.Infof("cancelled %d jobs for event %d", len(keys), eventID)
	return nil
}

// CanSnooze tells whether the snooze button should still be offered.
func CanSnooze(count int) bool { return count < MaxSnoozes }

// ReminderText renders the notification body for a job.
func ReminderText(kind Kind, eventTime time.Time, activity string, notes *string, loc *time.Location) string {
	var prefix string
	switch kind {
	case KindDayBefore:
		prefix = "Напоминание: завтра"
	case KindHourBefore:
		prefix = "Напоминание: через час"
	case KindSoon:
		prefix = "Напоминание: событие скоро"
	case KindAtTime:
		prefix = "Напоминание: время события наступило"
	case KindSnooze:
		prefix = "Напоминание (отложенное)"
	default:
		prefix = "Напоминание"
	}

	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "\nКогда: %s", eventTime.In(loc).Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "\nАктивность: %s", activity)
	if notes != nil && *notes != "" {
		fmt.Fprintf(&b, "\nЗаметки:\n%s", *notes)
	}
	return b.String()
}
