package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// PgxNotificationRepository stores the notification inbox and preferences.
type PgxNotificationRepository struct {
	*BaseRepository
}

func newPgxNotificationRepository(base *BaseRepository) *PgxNotificationRepository {
	return &PgxNotificationRepository{BaseRepository: base}
}

var (
	_ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)
	_ portsrepo.PreferenceRepository   = (*PgxNotificationRepository)(nil)
)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO notifications (notification_id, user_id, title, message, kind, priority,
			related_entity_type, related_entity_id, data, dedupe_key, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.NotificationID, n.UserID, n.Title, n.Message, n.Kind, n.Priority,
		n.RelatedEntityType, n.RelatedEntityID, n.Data, n.DedupeKey, n.IsRead, n.CreatedAt)
	return mapErr(err, "save", "notification", n.NotificationID)
}

func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := r.q(ctx).Query(ctx, `
		SELECT notification_id, user_id, title, message, kind, priority,
			related_entity_type, related_entity_id, data, dedupe_key, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY created_at DESC, notification_id DESC
		LIMIT $3`, userID, unreadOnly, limitArg)
	if err != nil {
		return nil, mapErr(err, "list", "notifications of user", userID)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Priority,
			&n.RelatedEntityType, &n.RelatedEntityID, &n.Data, &n.DedupeKey, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, mapErr(err, "scan", "notification of user", userID)
		}
		out = append(out, n)
	}
	return out, mapErr(rows.Err(), "list", "notifications of user", userID)
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE notification_id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return mapErr(err, "mark read", "notification", notificationID)
	}
	return expectOne(tag, "notification", notificationID)
}

func (r *PgxNotificationRepository) LastSentAt(ctx context.Context, dedupeKey string) (*time.Time, error) {
	var last *time.Time
	err := r.q(ctx).QueryRow(ctx, `SELECT MAX(created_at) FROM notifications WHERE dedupe_key = $1`, dedupeKey).Scan(&last)
	if err != nil {
		return nil, mapErr(err, "query", "notification dedupe key", dedupeKey)
	}
	return last, nil
}

func (r *PgxNotificationRepository) FindPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	var p domain.NotificationPreferences
	err := r.q(ctx).QueryRow(ctx, `
		SELECT user_id, reminders_enabled, recurring_enabled, updated_at
		FROM notification_preferences WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.RemindersEnabled, &p.RecurringEnabled, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "find", "notification preferences", userID)
	}
	return &p, nil
}

func (r *PgxNotificationRepository) SavePreferences(ctx context.Context, p domain.NotificationPreferences) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO notification_preferences (user_id, reminders_enabled, recurring_enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET reminders_enabled = EXCLUDED.reminders_enabled,
			recurring_enabled = EXCLUDED.recurring_enabled,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.RemindersEnabled, p.RecurringEnabled, p.UpdatedAt)
	return mapErr(err, "save", "notification preferences", p.UserID)
}
