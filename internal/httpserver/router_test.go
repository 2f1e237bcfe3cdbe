package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	BotApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "s3cret"

func newRouter(ready Pinger) (*Router, chan BotApi.Update) {
	updates := make(chan BotApi.Update, 1)
	return New(secret, updates, ready, zap.NewNop().Sugar()), updates
}

func post(h http.Handler, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_QueuesUpdate(t *testing.T) {
	r, updates := newRouter(nil)

	rec := post(r, secret, `{"update_id":7,"message":{"message_id":1,"chat":{"id":42},"text":"завтра"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case u := <-updates:
		assert.Equal(t, 7, u.UpdateID)
		require.NotNil(t, u.Message)
		assert.Equal(t, int64(42), u.Message.Chat.ID)
		assert.Equal(t, "завтра", u.Message.Text)
	case <-time.After(time.Second):
		t.Fatal("update was not queued")
	}
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	r, updates := newRouter(nil)

	assert.Equal(t, http.StatusForbidden, post(r, "wrong", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, post(r, "", `{}`).Code)
	assert.Empty(t, updates)
}

func TestWebhook_DropsMalformed(t *testing.T) {
	r, updates := newRouter(nil)

	assert.Equal(t, http.StatusOK, post(r, secret, `{not json`).Code)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, updates)
}

func TestWebhook_GetNotRouted(t *testing.T) {
	r, _ := newRouter(nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhook_NotMountedWithoutSecret(t *testing.T) {
	updates := make(chan BotApi.Update, 1)
	r := New("", updates, nil, zap.NewNop().Sugar())

	assert.Equal(t, http.StatusNotFound, post(r, "", `{"update_id":1}`).Code)
	assert.Empty(t, updates)
}

func TestLiveAndReady(t *testing.T) {
	var down error
	r, _ := newRouter(func(context.Context) error { return down })

	for _, path := range []string{"/live", "/ready"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "ok", rec.Body.String())
	}

	down = errors.New("db down")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
