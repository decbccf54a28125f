package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// ReminderCrudSvc defines the user-facing operations on reminders
type ReminderCrudSvc interface {
	CreateReminder(ctx context.Context, userID string, req dto.CreateReminderRequest) (*domain.Reminder, error)
	UpdateReminder(ctx context.Context, userID string, reminderID string, req dto.UpdateReminderRequest) (*domain.Reminder, error)
	CompleteReminder(ctx context.Context, userID string, reminderID string) (*domain.Reminder, error)
	SnoozeReminder(ctx context.Context, userID string, reminderID string, until time.Time) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, userID string, reminderID string) error
	GetReminder(ctx context.Context, userID string, reminderID string) (*domain.Reminder, error)
	ListReminders(ctx context.Context, userID string, status *domain.ReminderStatus) ([]domain.Reminder, error)
}

// ReminderEngineSvc is the scheduler-facing side of the reminder engine.
type ReminderEngineSvc interface {
	// SweepOverdue marks past-due pending reminders OVERDUE.
	SweepOverdue(ctx context.Context) (int64, error)

	// ProcessDueReminders notifies, auto-creates and advances due reminders.
	ProcessDueReminders(ctx context.Context) domain.ProcessReport
}

// ReminderSvcFacade combines the reminder interfaces
type ReminderSvcFacade interface {
	ReminderCrudSvc
	ReminderEngineSvc
}
