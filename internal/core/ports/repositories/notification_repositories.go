package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// NotificationRepository persists the user-facing notification inbox.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error

	// LastSentAt returns when a notification with dedupeKey was last stored, or nil.
	LastSentAt(ctx context.Context, dedupeKey string) (*time.Time, error)
}

// PreferenceRepository stores notification preferences.
type PreferenceRepository interface {
	// FindPreferences returns apperrors.ErrNotFound when the user never saved any.
	FindPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error
}
