package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/clock"
)

// storeDeduper answers dedupe claims from the notification inbox itself: a key
// is free when no notification carrying it was stored within the window.
// Claims are not atomic, which is fine for a single sequential scheduler.
type storeDeduper struct {
	repo  portsrepo.NotificationRepository
	clock clock.Clock
}

// NewStoreDeduper creates a deduper backed by the notification repository.
func NewStoreDeduper(repo portsrepo.NotificationRepository, c clock.Clock) portssvc.NotificationDeduper {
	return &storeDeduper{repo: repo, clock: c}
}

func (d *storeDeduper) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	last, err := d.repo.LastSentAt(ctx, key)
	if err != nil {
		return false, err
	}
	return last == nil || d.clock.Now().Sub(*last) >= window, nil
}

// Release is a no-op: an unsaved notification leaves no trace to release.
func (d *storeDeduper) Release(context.Context, string) error { return nil }

// logDispatcher stands in for push delivery by writing notifications to the log.
type logDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs each notification. A nil
// logger means the request-scoped logger of each call.
func NewLogDispatcher(logger *slog.Logger) portssvc.NotificationDispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	logger := d.logger
	if logger == nil {
		logger = middleware.GetLoggerFromCtx(ctx)
	}
	logger.Info("Notification dispatched",
		slog.String("notification_id", n.NotificationID),
		slog.String("user_id", n.UserID),
		slog.String("kind", string(n.Kind)),
		slog.String("priority", string(n.Priority)),
		slog.String("title", n.Title))
	return nil
}
