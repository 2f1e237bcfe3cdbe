package telegram

import (
	"context"
	"time"

	"ReminderBot/internal/scheduler"
	"ReminderBot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type JobSource interface {
	Due(ctx context.Context, now time.Time, limit int) ([]storage.Job, error)
	MarkSent(ctx context.Context, jobID int64) error
}

const dueBatch = 200

// Notifier delivers due reminder jobs. Sends are throttled to stay under
// the Bot API flood limits.
type Notifier struct {
	Bot      Sender
	Jobs     JobSource
	Settings ChatSettingsStore
	Interval time.Duration
	Limiter  *rate.Limiter
	Log      *zap.SugaredLogger

	now func() time.Time
}

func NewNotifier(bot Sender, jobs JobSource, settings ChatSettingsStore, interval time.Duration, perSecond float64, log *zap.SugaredLogger) *Notifier {
	return &Notifier{
		Bot:      bot,
		Jobs:     jobs,
		Settings: settings,
		Interval: interval,
		Limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		Log:      log,
		now:      time.Now,
	}
}

func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.Interval)
	defer ticker.Stop()

	n.processDueJobs(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.processDueJobs(ctx)
		}
	}
}

// processDueJobs sends one batch and returns how many were delivered.
func (n *Notifier) processDueJobs(ctx context.Context) int {
	qctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	jobs, err := n.Jobs.Due(qctx, n.now().UTC(), dueBatch)
	cancel()
	if err != nil {
		n.Log.Errorw("jobs.Due error", "err", err)
		return 0
	}

	locs := map[int64]*time.Location{}
	sent := 0
	for _, j := range jobs {
		if err := n.Limiter.Wait(ctx); err != nil {
			return sent
		}

		loc, ok := locs[j.ChatID]
		if !ok {
			cs, err := n.Settings.Get(ctx, j.ChatID)
			if err != nil {
				n.Log.Warnw("chat settings for reminder", "chat", j.ChatID, "err", err)
			}
			loc = storage.LoadUserLocation(cs.TimeZone)
			locs[j.ChatID] = loc
		}

		msg := tgbotapi.NewMessage(j.ChatID, scheduler.ReminderText(scheduler.Kind(j.Kind), j.Event, j.Activity, j.Notes, loc))
		msg.ReplyMarkup = ReminderKeyboard(j.EventID, j.Snoozes)
		if _, err := n.Bot.Send(msg); err != nil {
			if !permanentSendError(err) {
				// the rest of the batch is retried on the next tick
				n.Log.Errorw("send reminder error", "job", j.JobKey, "chat", j.ChatID, "err", err)
				return sent
			}
			n.Log.Warnw("reminder undeliverable, dropping", "job", j.JobKey, "chat", j.ChatID, "err", err)
			if err := n.Jobs.MarkSent(ctx, j.ID); err != nil {
				n.Log.Errorw("mark sent", "job", j.JobKey, "err", err)
			}
			continue
		}
		if err := n.Jobs.MarkSent(ctx, j.ID); err != nil {
			n.Log.Errorw("mark sent", "job", j.JobKey, "err", err)
		}
		sent++
		n.Log.Infow("reminder sent", "job", j.JobKey, "kind", j.Kind, "event", j.EventID, "chat", j.ChatID)
	}
	return sent
}

// permanentSendError reports whether Telegram rejected the message for good
// (400 or 403). Retrying such a job never succeeds.
func permanentSendError(err error) bool {
	var p *tgbotapi.Error
	if errors.As(err, &p) {
		return p.Code == 400 || p.Code == 403
	}
	var v tgbotapi.Error
	if errors.As(err, &v) {
		return v.Code == 400 || v.Code == 403
	}
	return false
}
