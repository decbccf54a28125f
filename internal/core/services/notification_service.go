package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

const (
	// DefaultDedupeWindow is how long a notification dedupe key suppresses repeats.
	DefaultDedupeWindow      = 24 * time.Hour
	defaultNotificationLimit = 50
)

// notificationService gates, stores and dispatches notifications.
type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepository
	preferenceRepo   portsrepo.PreferenceRepository
	deduper          portssvc.NotificationDeduper
	dispatcher       portssvc.NotificationDispatcher
	dedupeWindow     time.Duration
}

// NotificationOption configures the notification service.
type NotificationOption func(*notificationService)

// WithDeduper replaces the store-backed deduper, e.g. with the Redis one.
func WithDeduper(d portssvc.NotificationDeduper) NotificationOption {
	return func(s *notificationService) {
		s.deduper = d
	}
}

// WithDispatcher sets the push delivery collaborator.
func WithDispatcher(d portssvc.NotificationDispatcher) NotificationOption {
	return func(s *notificationService) {
		s.dispatcher = d
	}
}

// WithDedupeWindow sets how long a dedupe key suppresses repeats.
func WithDedupeWindow(window time.Duration) NotificationOption {
	return func(s *notificationService) {
		if window > 0 {
			s.dedupeWindow = window
		}
	}
}

// WithNotificationBase applies shared service options such as WithClock.
func WithNotificationBase(options ...ServiceOption) NotificationOption {
	return func(s *notificationService) {
		for _, option := range options {
			option(&s.BaseService)
		}
	}
}

// NewNotificationService creates a notification service. Without options it
// dedupes through the notification store and dispatches to the log.
func NewNotificationService(notificationRepo portsrepo.NotificationRepository, preferenceRepo portsrepo.PreferenceRepository, options ...NotificationOption) portssvc.NotificationSvcFacade {
	svc := &notificationService{
		BaseService:      newBaseService(),
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		dedupeWindow:     DefaultDedupeWindow,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.deduper == nil {
		svc.deduper = NewStoreDeduper(notificationRepo, svc.Clock)
	}
	if svc.dispatcher == nil {
		svc.dispatcher = NewLogDispatcher(nil)
	}
	return svc
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, req dto.NotifyRequest) (bool, error) {
	prefs, err := s.GetPreferences(ctx, req.UserID)
	if err != nil {
		return false, err
	}
	if !prefs.Allows(req.Kind) {
		s.LogDebug(ctx, "Notification disabled by preferences", slog.String("user_id", req.UserID), slog.String("kind", string(req.Kind)))
		return false, nil
	}

	if req.DedupeKey != "" {
		claimed, err := s.deduper.Claim(ctx, req.DedupeKey, s.dedupeWindow)
		if err != nil {
			return false, err
		}
		if !claimed {
			s.LogDebug(ctx, "Duplicate notification suppressed", slog.String("dedupe_key", req.DedupeKey))
			return false, nil
		}
	}

	n := domain.Notification{
		NotificationID:    uuid.NewString(),
		UserID:            req.UserID,
		Title:             req.Title,
		Message:           req.Message,
		Kind:              req.Kind,
		Priority:          req.Priority,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityID:   req.RelatedEntityID,
		Data:              req.Data,
		CreatedAt:         s.Now(),
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if req.DedupeKey != "" {
		key := req.DedupeKey
		n.DedupeKey = &key
	}

	if err := s.notificationRepo.SaveNotification(ctx, n); err != nil {
		if req.DedupeKey != "" {
			if rerr := s.deduper.Release(ctx, req.DedupeKey); rerr != nil {
				s.LogError(ctx, rerr, "Failed to release dedupe key", slog.String("dedupe_key", req.DedupeKey))
			}
		}
		return false, err
	}

	// Delivery is best effort; the inbox row is the source of truth.
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		s.LogError(ctx, err, "Notification dispatch failed", slog.String("notification_id", n.NotificationID))
	}
	return true, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) ([]domain.Notification, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return s.notificationRepo.ListNotifications(ctx, userID, params.UnreadOnly, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID)
}

func (s *notificationService) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	prefs, err := s.preferenceRepo.FindPreferences(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		defaults := domain.DefaultPreferences(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *notificationService) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*domain.NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.RemindersEnabled != nil {
		prefs.RemindersEnabled = *req.RemindersEnabled
	}
	if req.RecurringEnabled != nil {
		prefs.RecurringEnabled = *req.RecurringEnabled
	}
	prefs.UpdatedAt = s.Now()

	if err := s.preferenceRepo.SavePreferences(ctx, *prefs); err != nil {
		s.LogError(ctx, err, "Failed to save notification preferences", slog.String("user_id", userID))
		return nil, err
	}
	return prefs, nil
}
