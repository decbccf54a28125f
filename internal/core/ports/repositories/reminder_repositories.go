package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// ReminderReader defines read operations for reminders
type ReminderReader interface {
	FindReminderByID(ctx context.Context, reminderID string) (*domain.Reminder, error)
	ListRemindersByUser(ctx context.Context, userID string, status *domain.ReminderStatus) ([]domain.Reminder, error)

	// FindDueReminders returns active PENDING/OVERDUE reminders due at or before now
	// that are not snoozed past now, ordered by due date.
	FindDueReminders(ctx context.Context, now time.Time) ([]domain.Reminder, error)
}

// ReminderWriter defines write operations for reminders
type ReminderWriter interface {
	SaveReminder(ctx context.Context, reminder domain.Reminder) error
	UpdateReminder(ctx context.Context, reminder domain.Reminder) error
	DeleteReminder(ctx context.Context, reminderID string) error

	// FindReminderByIDForUpdate locks the reminder until the surrounding transaction ends.
	FindReminderByIDForUpdate(ctx context.Context, reminderID string) (*domain.Reminder, error)

	// MarkOverdue flips PENDING, unsnoozed reminders due before now to OVERDUE.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ReminderRepositoryFacade combines all reminder repository interfaces
type ReminderRepositoryFacade interface {
	ReminderReader
	ReminderWriter
}
