package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// Notifier is what the engines use to tell a user something happened.
// It reports whether the notification was delivered (false when gated or deduplicated).
type Notifier interface {
	Notify(ctx context.Context, req dto.NotifyRequest) (bool, error)
}

// NotificationSvcFacade is the notification inbox plus the Notifier.
type NotificationSvcFacade interface {
	Notifier
	ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*domain.NotificationPreferences, error)
}

// NotificationDispatcher delivers a stored notification to the user's devices.
// It is an external collaborator; failures never fail the triggering operation.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n domain.Notification) error
}

// NotificationDeduper claims an idempotency key for a time window.
type NotificationDeduper interface {
	// Claim returns true when key was not claimed within window and is now claimed.
	Claim(ctx context.Context, key string, window time.Duration) (bool, error)

	// Release gives a key back after a failed delivery.
	Release(ctx context.Context, key string) error
}
