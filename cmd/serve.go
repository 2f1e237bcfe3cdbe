package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"ReminderBot/internal/config"
	"ReminderBot/internal/httpserver"
	"ReminderBot/internal/logging"
	"ReminderBot/internal/scheduler"
	"ReminderBot/internal/storage"
	"ReminderBot/internal/telegram"
	"ReminderBot/internal/timeparse"
	"ReminderBot/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	updateWorkers = 2
	sessionsMax   = 10000
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (webhook when SELF_URL is set, long polling otherwise)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if u, err := url.Parse(cfg.DBUrl); err == nil {
		log.Infof("DB host=%s port=%s db=%s", u.Hostname(), u.Port(), strings.TrimPrefix(u.Path, "/"))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}
	log.Infof("Authorized on account %s", bot.Self.UserName)
	cmds := []tgbotapi.BotCommand{
		{Command: "start", Description: "Главное меню"},
		{Command: "tz", Description: "Часовой пояс"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		log.Warnf("setMyCommands: %v", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := storage.New(openCtx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("store failed: %w", err)
	}
	defer store.Close()

	if err := waitForDB(ctx, store.Ping, log); err != nil {
		return fmt.Errorf("db not ready: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	parser := timeparse.New(timeparse.WithLogger(log.Desugar()))
	sched := scheduler.New(store.Jobs(), store.Events(), log)
	wz := wizard.New(parser, store.Events(), sched, log,
		wizard.WithSessions(wizard.NewSessions(sessionsMax, cfg.SessionTTL)))
	handler := telegram.NewHandler(bot, store.ChatSettings(), store.Events(), sched, wz, log)

	updates := make(chan tgbotapi.Update, 100)
	if cfg.SelfURL != "" {
		if err := setWebhook(bot, cfg); err != nil {
			return err
		}
		log.Infof("webhook mode: %s/webhook", cfg.SelfURL)
	} else {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warnf("deleteWebhook: %v", err)
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		polled := bot.GetUpdatesChan(u)
		go func() {
			for upd := range polled {
				updates <- upd
			}
		}()
		defer bot.StopReceivingUpdates()
		log.Info("long polling mode")
	}

	var wg sync.WaitGroup
	for i := 0; i < updateWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case upd := <-updates:
					uctx, cancel := context.WithTimeout(ctx, 30*time.Second)
					handler.HandleUpdate(uctx, upd)
					cancel()
				}
			}
		}()
	}

	notifier := telegram.NewNotifier(bot, store.Jobs(), store.ChatSettings(), cfg.PollInterval, cfg.SendRate, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		notifier.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(cfg.WebhookSecret, updates, store.Ping, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		stop()
		wg.Wait()
		return fmt.Errorf("http server error: %w", err)
	}

	log.Info("shutting down")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	wg.Wait()
	return nil
}

func setWebhook(bot *tgbotapi.BotAPI, cfg *config.Config) error {
	params := tgbotapi.Params{}
	params.AddNonEmpty("url", cfg.SelfURL+"/webhook")
	params.AddNonEmpty("secret_token", cfg.WebhookSecret)
	params.AddBool("drop_pending_updates", true)

	resp, err := bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("setWebhook failed: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("setWebhook failed: %s", resp.Description)
	}
	return nil
}

func waitForDB(ctx context.Context, ping func(context.Context) error, log *zap.SugaredLogger) error {
	backoff := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		15 * time.Second,
	}
	for i, d := range backoff {
		c, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := ping(c)
		cancel()
		if err == nil {
			return nil
		}
		log.Warnf("db ping failed (%d/%d): %v, retry in %v", i+1, len(backoff), err, d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return fmt.Errorf("database not reachable after retries")
}
