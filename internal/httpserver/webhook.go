package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	BotApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const maxUpdateBytes = 1 << 20

type WebhookHandler struct {
	Secret  string
	Updates chan<- BotApi.Update
	log     *zap.SugaredLogger
}

func NewWebhookHandler(secret string, updates chan<- BotApi.Update, log *zap.SugaredLogger) *WebhookHandler {
	return &WebhookHandler{
		Secret:  secret,
		Updates: updates,
		log:     log,
	}
}

// ServeHTTP acknowledges the update as soon as it is decoded. Malformed
// bodies are acknowledged too and dropped; Telegram redelivers any non-2xx.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != h.Secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var upd BotApi.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		h.log.Warnw("drop malformed update", "err", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	go func() { h.Updates <- upd }()
}
