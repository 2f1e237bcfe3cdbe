// Package wizard drives the step-by-step dialog that turns user messages
// into a confirmed reminder: when, what, notes, confirm.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ReminderBot/internal/notes"
	"ReminderBot/internal/storage"
	"ReminderBot/internal/timeparse"

	"go.uber.org/zap"
)

// Keyboard names the reply keyboard to show with a message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardCancel
	KeyboardConfirm
	KeyboardEdit
	KeyboardMainMenu
)

type Reply struct {
	Text     string
	Keyboard Keyboard
}

const (
	BtnCancel   = "Отмена"
	BtnConfirm  = "Подтвердить"
	BtnEdit     = "Изменить"
	BtnEditWhen = "Дата/время"
	BtnEditWhat = "Активность"
	BtnEditNote = "Заметки"

	maxActivity = 200
)

const (
	msgAskWhen        = "Введите дату и время (например: завтра 18:00, 25.12 15:30, через 2 часа):"
	msgBadWhen        = "Не понял дату/время. Попробуй иначе."
	msgAskTime        = "Понял дату. Теперь введите время (например: 18:00, вечером):"
	msgAskDate        = "Понял время. Теперь введите дату (например: завтра, 25.12, в субботу):"
	msgBadTime        = "Не понял время. Попробуй иначе (например: 18:00, вечером)."
	msgBadDate        = "Не понял дату. Попробуй иначе (например: завтра, 25.12)."
	msgPastDate       = "Введи корректную дату"
	msgPastTime       = "Введи корректное время"
	msgAskActivity    = "Введите активность (1-200 символов):"
	msgBadActivity    = "Активность должна быть от 1 до 200 символов."
	msgAskNotes       = "Введите заметки (или '-' если без заметок). Перечисление через запятую станет списком:"
	msgCreated        = "Напоминание создано!"
	msgCancelled      = "Создание напоминания отменено."
	msgConfirmHint    = "Нажмите 'Подтвердить', 'Изменить' или 'Отмена'."
	msgWhatToEdit     = "Что изменить?"
	msgAskNewWhen     = "Введите новую дату и время:"
	msgAskNewActivity = "Введите новую активность:"
	msgAskNewNotes    = "Введите новые заметки:"
	msgSaveFailed     = "Не удалось сохранить напоминание. Попробуйте ещё раз."
)

type EventCreator interface {
	Create(ctx context.Context, e *storage.Event) (int64, error)
}

type Scheduler interface {
	ScheduleEvent(ctx context.Context, eventID int64, eventTime, now time.Time) error
}

type Wizard struct {
	parser   *timeparse.Parser
	events   EventCreator
	sched    Scheduler
	sessions *Sessions
	log      *zap.SugaredLogger
	now      func() time.Time
}

type Option func(*Wizard)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithSessions(s *Sessions) Option {
	return func(w *Wizard) { w.sessions = s }
}

func New(parser *timeparse.Parser, events EventCreator, sched Scheduler, log *zap.SugaredLogger, opts ...Option) *Wizard {
	w := &Wizard{
		parser:   parser,
		events:   events,
		sched:    sched,
		sessions: NewSessions(10000, 24*time.Hour),
		log:      log,
		now:      time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Start opens a fresh draft for chatID, discarding any previous one.
func (w *Wizard) Start(chatID int64, loc *time.Location) Reply {
	w.sessions.Put(chatID, Session{State: StateDate, Location: loc})
	return Reply{msgAskWhen, KeyboardCancel}
}

func (w *Wizard) Active(chatID int64) bool {
	_, ok := w.sessions.Get(chatID)
	return ok
}

// Handle feeds one message into the chat's draft. ok is false when the chat
// has no draft in progress.
func (w *Wizard) Handle(ctx context.Context, chatID int64, text string) (reply Reply, ok bool) {
	sess, ok := w.sessions.Get(chatID)
	if !ok {
		return Reply{}, false
	}
	text = strings.TrimSpace(text)

	if text == BtnCancel {
		w.sessions.Drop(chatID)
		return Reply{msgCancelled, KeyboardMainMenu}, true
	}

	now := w.now().In(sess.Location)
	switch sess.State {
	case StateDate:
		reply = w.onDate(&sess, text, now)
	case StateTimeOnly:
		reply = w.onTimeOnly(&sess, text, now)
	case StateDateOnly:
		reply = w.onDateOnly(&sess, text, now)
	case StateActivity:
		reply = w.onActivity(&sess, text)
	case StateNotes:
		sess.Notes = nil
		if n, ok := notes.Format(text); ok {
			sess.Notes = &n
		}
		sess.State = StateConfirm
		reply = Reply{confirmation(sess), KeyboardConfirm}
	case StateConfirm:
		switch text {
		case BtnConfirm:
			return w.confirm(ctx, chatID, sess, now), true
		case BtnEdit:
			sess.State = StateEditChoice
			reply = Reply{msgWhatToEdit, KeyboardEdit}
		default:
			reply = Reply{msgConfirmHint, KeyboardConfirm}
		}
	case StateEditChoice:
		reply = w.onEditChoice(&sess, text)
	}

	w.sessions.Put(chatID, sess)
	return reply, true
}

func (w *Wizard) onDate(sess *Session, text string, now time.Time) Reply {
	res, err := w.parser.Parse(text, sess.Location, now)
	if err != nil {
		return Reply{Text: msgBadWhen}
	}

	switch {
	case res.HasDate && !res.HasTime:
		sess.PartialDate = res.Time
		sess.State = StateTimeOnly
		return Reply{Text: msgAskTime}
	case res.HasTime && !res.HasDate:
		sess.PartialHour, sess.PartialMin = res.Time.Hour(), res.Time.Minute()
		sess.State = StateDateOnly
		return Reply{Text: msgAskDate}
	}

	if !res.Time.After(now) {
		if dayOf(res.Time).Before(dayOf(now)) {
			return Reply{Text: msgPastDate}
		}
		return Reply{Text: msgPastTime}
	}
	sess.EventTime = res.Time
	sess.State = StateActivity
	return Reply{Text: msgAskActivity}
}

func (w *Wizard) onTimeOnly(sess *Session, text string, now time.Time) Reply {
	c, ok := timeparse.ParseClock(timeparse.Normalize(text))
	if !ok {
		return Reply{Text: msgBadTime}
	}
	d := sess.PartialDate.In(sess.Location)
	at := time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, sess.Location)
	if !at.After(now) {
		return Reply{Text: msgPastTime}
	}
	sess.EventTime = at
	sess.State = StateActivity
	return Reply{Text: msgAskActivity}
}

func (w *Wizard) onDateOnly(sess *Session, text string, now time.Time) Reply {
	res, err := w.parser.Parse(text, sess.Location, now)
	if err != nil || !res.HasDate {
		return Reply{Text: msgBadDate}
	}
	d := res.Time.In(sess.Location)
	at := time.Date(d.Year(), d.Month(), d.Day(), sess.PartialHour, sess.PartialMin, 0, 0, sess.Location)
	if !at.After(now) {
		return Reply{Text: msgPastDate}
	}
	sess.EventTime = at
	sess.State = StateActivity
	return Reply{Text: msgAskActivity}
}

func (w *Wizard) onActivity(sess *Session, text string) Reply {
	if n := utf8.RuneCountInString(text); n == 0 || n > maxActivity {
		return Reply{Text: msgBadActivity}
	}
	sess.Activity = text
	sess.State = StateNotes
	return Reply{Text: msgAskNotes}
}

func (w *Wizard) onEditChoice(sess *Session, text string) Reply {
	switch text {
	case BtnEditWhen:
		sess.State = StateDate
		return Reply{msgAskNewWhen, KeyboardCancel}
	case BtnEditWhat:
		sess.State = StateActivity
		return Reply{msgAskNewActivity, KeyboardCancel}
	case BtnEditNote:
		sess.State = StateNotes
		return Reply{msgAskNewNotes, KeyboardCancel}
	}
	return Reply{msgWhatToEdit, KeyboardEdit}
}

func (w *Wizard) confirm(ctx context.Context, chatID int64, sess Session, now time.Time) Reply {
	ev := &storage.Event{
		ChatID:    chatID,
		EventTime: sess.EventTime,
		Activity:  sess.Activity,
		Notes:     sess.Notes,
		Status:    storage.StatusActive,
	}
	id, err := w.events.Create(ctx, ev)
	if err != nil {
		w.log.Errorw("create event", "chat", chatID, "err", err)
		return Reply{msgSaveFailed, KeyboardConfirm}
	}
	if err := w.sched.ScheduleEvent(ctx, id, sess.EventTime, now); err != nil {
		w.log.Errorw("schedule event", "chat", chatID, "event", id, "err", err)
	}
	w.sessions.Drop(chatID)
	w.log.Infow("reminder created", "chat", chatID, "event", id, "at", sess.EventTime.Format(time.RFC3339))
	return Reply{msgCreated, KeyboardMainMenu}
}

func confirmation(s Session) string {
	n := "—"
	if s.Notes != nil {
		n = *s.Notes
	}
	return fmt.Sprintf("Подтвердите напоминание:\n\nКогда: %s\nАктивность: %s\nЗаметки:\n%s",
		s.EventTime.In(s.Location).Format("02.01.2006 15:04"), s.Activity, n)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
