package memory

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

func (s *Store) SaveNotification(ctx context.Context, n domain.Notification) error {
	return s.write(ctx, func() error {
		s.notifications = append(s.notifications, n)
		return nil
	})
}

// ListNotifications returns the newest notifications first.
func (s *Store) ListNotifications(_ context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	s.read(func() {
		for i := len(s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			n := s.notifications[i]
			if n.UserID == userID && (!unreadOnly || !n.IsRead) {
				out = append(out, n)
			}
		}
	})
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	return s.write(ctx, func() error {
		for i := range s.notifications {
			if s.notifications[i].NotificationID == notificationID && s.notifications[i].UserID == userID {
				s.notifications[i].IsRead = true
				return nil
			}
		}
		return notFound("notification", notificationID)
	})
}

func (s *Store) LastSentAt(_ context.Context, dedupeKey string) (*time.Time, error) {
	var last *time.Time
	s.read(func() {
		for i := range s.notifications {
			n := s.notifications[i]
			if n.DedupeKey != nil && *n.DedupeKey == dedupeKey && (last == nil || n.CreatedAt.After(*last)) {
				createdAt := n.CreatedAt
				last = &createdAt
			}
		}
	})
	return last, nil
}

func (s *Store) FindPreferences(_ context.Context, userID string) (*domain.NotificationPreferences, error) {
	var (
		p  domain.NotificationPreferences
		ok bool
	)
	s.read(func() { p, ok = s.preferences[userID] })
	if !ok {
		return nil, notFound("notification preferences", userID)
	}
	return &p, nil
}

func (s *Store) SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	return s.write(ctx, func() error {
		s.preferences[prefs.UserID] = prefs
		return nil
	})
}
