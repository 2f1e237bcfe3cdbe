package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	BotApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type Router struct {
	Secret  string
	Updates chan<- BotApi.Update
	handler http.Handler
}

func New(secret string, updates chan<- BotApi.Update, ready Pinger, log *zap.SugaredLogger) *Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// no secret means long polling; the webhook stays unmounted
	if secret != "" {
		router.Post("/webhook", NewWebhookHandler(secret, updates, log).ServeHTTP)
	}

	router.Get("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				log.Warnw("readiness check failed", "err", err)
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Router{
		Secret:  secret,
		Updates: updates,
		handler: router,
	}
}

func (rout *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rout.handler.ServeHTTP(w, r)
}
