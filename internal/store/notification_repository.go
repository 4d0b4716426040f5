package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/types/notification"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *notification.Notification) error {
	_, err := r.db.Exec(ctx, `
	INSERT INTO notifications (id, user_id, type, status, title, body, data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Type, n.Status, n.Title, n.Body, n.Data, n.CreatedAt)
	if err != nil {
		return apperr.Store(err, "failed to create notification")
	}
	return nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*notification.Notification, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, apperr.Store(err, "failed to count notifications")
	}

	rows, err := r.db.Query(ctx, `
	SELECT id, user_id, type, status, title, body, data, read_at, sent_at, failed_at, failure_reason, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Store(err, "failed to list notifications")
	}
	defer rows.Close()

	items := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Status, &n.Title, &n.Body, &n.Data,
			&n.ReadAt, &n.SentAt, &n.FailedAt, &n.FailureReason, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperr.Store(err, "failed to scan notification")
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Store(err, "failed to list notifications")
	}
	return items, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, apperr.Store(err, "failed to get unread count")
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := r.db.Exec(ctx, `
	UPDATE notifications
	SET read_at = COALESCE(read_at, NOW())
	WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return apperr.Store(err, "failed to mark notification as read")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, notificationID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
	UPDATE notifications
	SET status = 'sent', sent_at = $2
	WHERE id = $1
	`, notificationID, at)
	if err != nil {
		return apperr.Store(err, "failed to mark notification as sent")
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, notificationID, reason string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
	UPDATE notifications
	SET status = 'failed', failed_at = $2, failure_reason = $3
	WHERE id = $1
	`, notificationID, at, reason)
	if err != nil {
		return apperr.Store(err, "failed to mark notification as failed")
	}
	return nil
}

// GetPreferences falls back to the defaults for users who never saved any.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID string) (*notification.Preferences, error) {
	prefs := &notification.Preferences{UserID: userID}
	err := r.db.QueryRow(ctx, `
	SELECT push_enabled, email_enabled, whatsapp_enabled, updated_at
	FROM notification_preferences
	WHERE user_id = $1
	`, userID).Scan(&prefs.PushEnabled, &prefs.EmailEnabled, &prefs.WhatsAppEnabled, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.DefaultPreferences(userID), nil
		}
		return nil, apperr.Store(err, "failed to get preferences")
	}
	return prefs, nil
}

func (r *NotificationRepository) SavePreferences(ctx context.Context, prefs *notification.Preferences) error {
	_, err := r.db.Exec(ctx, `
	INSERT INTO notification_preferences (user_id, push_enabled, email_enabled, whatsapp_enabled, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE
	SET push_enabled = EXCLUDED.push_enabled,
		email_enabled = EXCLUDED.email_enabled,
		whatsapp_enabled = EXCLUDED.whatsapp_enabled,
		updated_at = EXCLUDED.updated_at
	`, prefs.UserID, prefs.PushEnabled, prefs.EmailEnabled, prefs.WhatsAppEnabled, prefs.UpdatedAt)
	if err != nil {
		return apperr.Store(err, "failed to save preferences")
	}
	return nil
}

func (r *NotificationRepository) AddDeviceToken(ctx context.Context, userID string, token notification.DeviceToken) error {
	_, err := r.db.Exec(ctx, `
	INSERT INTO device_tokens (user_id, token, platform, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, token) DO UPDATE SET platform = EXCLUDED.platform
	`, userID, token.Token, token.Platform, token.CreatedAt)
	if err != nil {
		return apperr.Store(err, "failed to register device")
	}
	return nil
}

func (r *NotificationRepository) ListDeviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := r.db.Query(ctx, `
	SELECT token, platform, created_at
	FROM device_tokens
	WHERE user_id = $1
	ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, apperr.Store(err, "failed to list device tokens")
	}
	defer rows.Close()

	tokens := make([]notification.DeviceToken, 0)
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, apperr.Store(err, "failed to scan device token")
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "failed to list device tokens")
	}
	return tokens, nil
}

// DeleteOlderThan removes delivered or read notifications created before
// cutoff. Pending ones are kept.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
	DELETE FROM notifications
	WHERE created_at < $1
		AND (status <> 'pending' OR read_at IS NOT NULL)
	`, cutoff)
	if err != nil {
		return 0, apperr.Store(err, "failed to cleanup notifications")
	}
	return tag.RowsAffected(), nil
}
