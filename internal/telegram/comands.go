package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ReminderBot/internal/scheduler"
	"ReminderBot/internal/storage"
	"ReminderBot/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	cbSnooze = "snooze"
	cbDone   = "done"
	cbDelete = "delete"
)

const (
	msgMainMenu    = "Главное меню:"
	msgAskTZFirst  = "Выберите часовой пояс или введите IANA timezone (например Europe/Moscow):"
	msgAskTZ       = "Выберите часовой пояс или введите IANA timezone:"
	msgBadTZ       = "Некорректный timezone. Попробуйте снова."
	msgNeedTZ      = "Сначала установите часовой пояс: /tz"
	msgWeekEmpty   = "На этой неделе нет активных напоминаний."
	msgSnoozed     = "Отложено на 1 час."
	msgSnoozeLimit = "Лимит откладываний достигнут (25)."
	msgInactive    = "Напоминание уже неактивно."
	msgDone        = "✅ Завершено"
	msgDeleted     = "Удалено."
	msgFailed      = "Что-то пошло не так, попробуйте позже."
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type ChatSettingsStore interface {
	Get(ctx context.Context, chatID int64) (storage.ChatSettings, error)
	UpsertTZ(ctx context.Context, chatID int64, tz string) error
}

type EventStore interface {
	UpdateStatus(ctx context.Context, id int64, status storage.EventStatus) error
	Week(ctx context.Context, chatID int64, from, to time.Time) ([]storage.Event, error)
}

type Reminders interface {
	Snooze(ctx context.Context, eventID int64, now time.Time) (int, error)
	Cancel(ctx context.Context, eventID int64) error
}

type Handler struct {
	bot       Sender
	settings  ChatSettingsStore
	events    EventStore
	reminders Reminders
	wizard    *wizard.Wizard
	tzPending *expirable.LRU[int64, struct{}]
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewHandler(bot Sender, settings ChatSettingsStore, events EventStore, reminders Reminders, wz *wizard.Wizard, log *zap.SugaredLogger) *Handler {
	return &Handler{
		bot:       bot,
		settings:  settings,
		events:    events,
		reminders: reminders,
		wizard:    wz,
		tzPending: expirable.NewLRU[int64, struct{}](10000, nil, time.Hour),
		log:       log,
		now:       time.Now,
	}
}

func (h *Handler) reply(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.log.Errorw("reply send error", "chat", chatID, "err", err)
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		h.HandleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case message.IsCommand() && message.Command() == "start":
		h.tzPending.Remove(chatID)
		if _, err := h.location(ctx, chatID); err != nil {
			h.askTimezone(chatID, msgAskTZFirst)
			return
		}
		h.reply(chatID, msgMainMenu, mainMenu())
		return

	case message.IsCommand() && message.Command() == "tz":
		h.askTimezone(chatID, msgAskTZ)
		return
	}

	if h.tzPending.Contains(chatID) {
		h.setTimezone(ctx, chatID, text)
		return
	}

	if text == BtnRemind {
		loc, err := h.location(ctx, chatID)
		if err != nil {
			h.reply(chatID, msgNeedTZ, nil)
			return
		}
		r := h.wizard.Start(chatID, loc)
		h.reply(chatID, r.Text, wizardMarkup(r.Keyboard))
		return
	}

	// the week view leaves an unfinished draft untouched
	if text == BtnWeek {
		h.showWeek(ctx, chatID)
		return
	}

	if r, ok := h.wizard.Handle(ctx, chatID, text); ok {
		h.reply(chatID, r.Text, wizardMarkup(r.Keyboard))
	}
}

// location returns the chat's saved timezone.
func (h *Handler) location(ctx context.Context, chatID int64) (*time.Location, error) {
	cs, err := h.settings.Get(ctx, chatID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.log.Errorw("chat settings", "chat", chatID, "err", err)
		}
		return nil, err
	}
	return storage.LoadUserLocation(cs.TimeZone), nil
}

func (h *Handler) askTimezone(chatID int64, prompt string) {
	h.tzPending.Add(chatID, struct{}{})
	h.reply(chatID, prompt, tzKeyboard())
}

func (h *Handler) setTimezone(ctx context.Context, chatID int64, tz string) {
	if _, err := storage.ParseLocation(tz); err != nil {
		h.reply(chatID, msgBadTZ, nil)
		return
	}
	if err := h.settings.UpsertTZ(ctx, chatID, tz); err != nil {
		h.log.Errorw("save timezone", "chat", chatID, "tz", tz, "err", err)
		h.reply(chatID, msgFailed, nil)
		return
	}
	h.tzPending.Remove(chatID)
	h.log.Infow("timezone set", "chat", chatID, "tz", tz)
	h.reply(chatID, "Timezone установлен: "+tz, mainMenu())
}

// weekBounds spans from the start of today to the end of Sunday.
func weekBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dow := int(now.Weekday())
	if dow == 0 {
		dow = 7
	}
	end := start.AddDate(0, 0, 7-dow).Add(24*time.Hour - time.Second)
	return start, end
}

func (h *Handler) showWeek(ctx context.Context, chatID int64) {
	loc, err := h.location(ctx, chatID)
	if err != nil {
		h.reply(chatID, msgNeedTZ, nil)
		return
	}
	from, to := weekBounds(h.now().In(loc))

	list, err := h.events.Week(ctx, chatID, from, to)
	if err != nil {
		h.log.Errorw("week events", "chat", chatID, "err", err)
		h.reply(chatID, msgFailed, nil)
		return
	}
	if len(list) == 0 {
		h.reply(chatID, msgWeekEmpty, nil)
		return
	}

	for _, e := range list {
		var b strings.Builder
		fmt.Fprintf(&b, "Когда: %s\nАктивность: %s", e.EventTime.In(loc).Format("02.01.2006 15:04"), e.Activity)
		if e.Notes != nil && *e.Notes != "" {
			fmt.Fprintf(&b, "\nЗаметки:\n%s", *e.Notes)
		}
		h.reply(chatID, b.String(), deleteKeyboard(e.ID))
	}
}

func parseCallback(data string) (string, int64, bool) {
	action, raw, ok := strings.Cut(data, ":")
	if !ok {
		return "", 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return action, id, true
}

func (h *Handler) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		h.log.Warnw("answer callback", "err", err)
	}
}

func (h *Handler) setMarkup(cq *tgbotapi.CallbackQuery, markup tgbotapi.InlineKeyboardMarkup) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, markup)
	if _, err := h.bot.Request(edit); err != nil {
		h.log.Warnw("edit markup", "err", err)
	}
}

func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	action, eventID, ok := parseCallback(cq.Data)
	if !ok {
		h.answer(cq, "")
		return
	}

	switch action {
	case cbSnooze:
		n, err := h.reminders.Snooze(ctx, eventID, h.now())
		switch {
		case err == nil:
			h.answer(cq, msgSnoozed)
		case errors.Is(err, scheduler.ErrSnoozeLimit):
			h.answer(cq, msgSnoozeLimit)
			h.setMarkup(cq, ReminderKeyboard(eventID, n))
		case errors.Is(err, scheduler.ErrInactive), errors.Is(err, storage.ErrNotFound):
			h.answer(cq, msgInactive)
			h.setMarkup(cq, noKeyboard())
		default:
			h.log.Errorw("snooze", "event", eventID, "err", err)
			h.answer(cq, msgFailed)
		}

	case cbDone, cbDelete:
		status := storage.StatusDone
		if action == cbDelete {
			status = storage.StatusDeleted
		}
		if err := h.events.UpdateStatus(ctx, eventID, status); err != nil {
			h.log.Errorw("update status", "event", eventID, "status", status, "err", err)
			h.answer(cq, msgFailed)
			return
		}
		if err := h.reminders.Cancel(ctx, eventID); err != nil {
			h.log.Errorw("cancel jobs", "event", eventID, "err", err)
		}
		h.setMarkup(cq, noKeyboard())
		if action == cbDelete {
			h.answer(cq, msgDeleted)
			return
		}
		if cq.Message != nil {
			h.reply(cq.Message.Chat.ID, msgDone, nil)
		}
		h.answer(cq, "")

	default:
		h.answer(cq, "")
	}
}
