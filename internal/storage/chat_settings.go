package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type ChatSettings struct {
	ChatID    int64
	TimeZone  string
	CreatedAt time.Time
}

type ChatSettingsRepo interface {
	Get(ctx context.Context, chatID int64) (ChatSettings, error)
	UpsertTZ(ctx context.Context, chatID int64, tz string) error
}

type chatSettingsPG struct{ db *pgxpool.Pool }

func (s *Storage) ChatSettings() ChatSettingsRepo { return &chatSettingsPG{s.pool} }

// Get returns ErrNotFound for chats that never picked a timezone.
func (r *chatSettingsPG) Get(ctx context.Context, chatID int64) (ChatSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `SELECT chat_id, time_zone, created_at FROM chat_settings WHERE chat_id=$1`
	var cs ChatSettings
	err := r.db.QueryRow(ctx, q, chatID).Scan(&cs.ChatID, &cs.TimeZone, &cs.CreatedAt)
	if err != nil {
		return cs, errors.Wrapf(notFound(err), "get chat %d", chatID)
	}
	return cs, nil
}

func (r *chatSettingsPG) UpsertTZ(ctx context.Context, chatID int64, tz string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO chat_settings (chat_id, time_zone)
VALUES ($1,$2)
ON CONFLICT (chat_id) DO UPDATE SET time_zone=EXCLUDED.time_zone`
	_, err := r.db.Exec(ctx, q, chatID, tz)
	return errors.Wrapf(err, "upsert tz chat %d", chatID)
}
