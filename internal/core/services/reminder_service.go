package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// reminderService holds reminders and drives their state machine.
type reminderService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	reminderRepo   portsrepo.ReminderRepositoryFacade
	walletRepo     portsrepo.WalletReader
	transactionSvc portssvc.TransactionWriterSvc
	notifier       portssvc.Notifier
}

// NewReminderService creates the reminder engine.
func NewReminderService(
	txManager portsrepo.TransactionManager,
	reminderRepo portsrepo.ReminderRepositoryFacade,
	walletRepo portsrepo.WalletReader,
	transactionSvc portssvc.TransactionWriterSvc,
	notifier portssvc.Notifier,
	options ...ServiceOption,
) portssvc.ReminderSvcFacade {
	return &reminderService{
		BaseService:    newBaseService(options...),
		txManager:      txManager,
		reminderRepo:   reminderRepo,
		walletRepo:     walletRepo,
		transactionSvc: transactionSvc,
		notifier:       notifier,
	}
}

var _ portssvc.ReminderSvcFacade = (*reminderService)(nil)

// ReminderDedupeKey identifies one occurrence of a reminder for notification dedupe.
func ReminderDedupeKey(reminderID string, dueDate time.Time) string {
	return fmt.Sprintf("reminder:%s:%d", reminderID, dueDate.Unix())
}

func (s *reminderService) validateAutoCreate(ctx context.Context, userID string, r domain.Reminder) error {
	if r.Amount != nil {
		if err := requirePositive("amount", *r.Amount); err != nil {
			return err
		}
	}
	if r.WalletID != nil {
		if _, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, *r.WalletID); err != nil {
			return err
		}
	}
	if r.AutoCreateTransaction && (r.Amount == nil || r.WalletID == nil) {
		return fmt.Errorf("%w: autoCreateTransaction needs an amount and a walletID", apperrors.ErrValidation)
	}
	return nil
}

func (s *reminderService) CreateReminder(ctx context.Context, userID string, req dto.CreateReminderRequest) (*domain.Reminder, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.Now()
	reminder := domain.Reminder{
		ReminderID:            uuid.NewString(),
		UserID:                userID,
		Title:                 req.Title,
		Description:           req.Description,
		Amount:                req.Amount,
		DueDate:               req.DueDate,
		Frequency:             req.Frequency,
		CustomIntervalDays:    req.CustomIntervalDays,
		IsRecurring:           req.IsRecurring,
		WalletID:              req.WalletID,
		CategoryID:            req.CategoryID,
		AutoCreateTransaction: req.AutoCreateTransaction,
		TransactionKind:       req.TransactionKind,
		Status:                domain.ReminderPending,
		IsActive:              true,
		AuditFields:           domain.NewAuditFields(userID, now),
	}
	if err := s.validateAutoCreate(ctx, userID, reminder); err != nil {
		return nil, err
	}

	if err := s.reminderRepo.SaveReminder(ctx, reminder); err != nil {
		s.LogError(ctx, err, "Failed to save reminder", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Reminder created", slog.String("reminder_id", reminder.ReminderID), slog.Time("due_date", reminder.DueDate))
	return &reminder, nil
}

func (s *reminderService) findOwnedReminder(ctx context.Context, userID, reminderID string) (*domain.Reminder, error) {
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder.UserID != userID {
		return nil, fmt.Errorf("%w: reminder %s", apperrors.ErrNotFound, reminderID)
	}
	return reminder, nil
}

// mutateOwned locks an owned reminder, applies fn and persists the result.
func (s *reminderService) mutateOwned(ctx context.Context, userID, reminderID string, fn func(r *domain.Reminder) error) (*domain.Reminder, error) {
	var updated domain.Reminder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.findOwnedReminder(ctx, userID, reminderID); err != nil {
			return err
		}
		reminder, err := s.reminderRepo.FindReminderByIDForUpdate(ctx, reminderID)
		if err != nil {
			return err
		}
		if err := fn(reminder); err != nil {
			return err
		}
		reminder.Touch(userID, s.Now())
		if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
			return err
		}
		updated = *reminder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *reminderService) GetReminder(ctx context.Context, userID string, reminderID string) (*domain.Reminder, error) {
	return s.findOwnedReminder(ctx, userID, reminderID)
}

func (s *reminderService) ListReminders(ctx context.Context, userID string, status *domain.ReminderStatus) ([]domain.Reminder, error) {
	return s.reminderRepo.ListRemindersByUser(ctx, userID, status)
}

func (s *reminderService) UpdateReminder(ctx context.Context, userID string, reminderID string, req dto.UpdateReminderRequest) (*domain.Reminder, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	updated, err := s.mutateOwned(ctx, userID, reminderID, func(r *domain.Reminder) error {
		if req.Title != nil {
			r.Title = *req.Title
		}
		if req.Description != nil {
			r.Description = *req.Description
		}
		if req.Amount != nil {
			r.Amount = req.Amount
		}
		if req.DueDate != nil && !req.DueDate.Equal(r.DueDate) {
			r.DueDate = *req.DueDate
			r.TriggeredFor = nil
			if r.Status == domain.ReminderOverdue {
				r.Status = domain.ReminderPending
			}
		}
		if req.Frequency != nil {
			r.Frequency = *req.Frequency
		}
		if req.CustomIntervalDays != nil {
			r.CustomIntervalDays = req.CustomIntervalDays
		}
		if req.IsRecurring != nil {
			r.IsRecurring = *req.IsRecurring
		}
		if req.WalletID != nil {
			r.WalletID = req.WalletID
		}
		if req.CategoryID != nil {
			r.CategoryID = req.CategoryID
		}
		if req.AutoCreateTransaction != nil {
			r.AutoCreateTransaction = *req.AutoCreateTransaction
		}
		if req.TransactionKind != nil {
			r.TransactionKind = req.TransactionKind
		}
		return s.validateAutoCreate(ctx, userID, *r)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update reminder", slog.String("reminder_id", reminderID))
		return nil, err
	}
	return updated, nil
}

// CompleteReminder moves a recurring reminder to its next occurrence and
// closes a one-off reminder for good.
func (s *reminderService) CompleteReminder(ctx context.Context, userID string, reminderID string) (*domain.Reminder, error) {
	now := s.Now()
	updated, err := s.mutateOwned(ctx, userID, reminderID, func(r *domain.Reminder) error {
		if r.Status == domain.ReminderCompleted {
			return fmt.Errorf("%w: reminder %s is already completed", apperrors.ErrInvalidOperation, reminderID)
		}
		if r.IsRecurring {
			r.AdvanceOccurrence(now)
			return nil
		}
		r.Status = domain.ReminderCompleted
		r.CompletedCount++
		r.LastCompleted = &now
		r.SnoozeUntil = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reminder completed", slog.String("reminder_id", reminderID), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *reminderService) SnoozeReminder(ctx context.Context, userID string, reminderID string, until time.Time) (*domain.Reminder, error) {
	now := s.Now()
	if !until.After(now) {
		return nil, fmt.Errorf("%w: snooze time must be in the future", apperrors.ErrValidation)
	}
	return s.mutateOwned(ctx, userID, reminderID, func(r *domain.Reminder) error {
		if r.Status == domain.ReminderCompleted {
			return fmt.Errorf("%w: reminder %s is completed", apperrors.ErrInvalidOperation, reminderID)
		}
		r.SnoozeUntil = &until
		return nil
	})
}

func (s *reminderService) DeleteReminder(ctx context.Context, userID string, reminderID string) error {
	if _, err := s.findOwnedReminder(ctx, userID, reminderID); err != nil {
		return err
	}
	return s.reminderRepo.DeleteReminder(ctx, reminderID)
}

// SweepOverdue keeps OVERDUE current regardless of notification delivery.
func (s *reminderService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.reminderRepo.MarkOverdue(ctx, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed")
		return 0, err
	}
	if n > 0 {
		s.LogInfo(ctx, "Marked reminders overdue", slog.Int64("count", n))
	}
	return n, nil
}

// ProcessDueReminders notifies about, auto-posts and advances every due reminder.
func (s *reminderService) ProcessDueReminders(ctx context.Context) domain.ProcessReport {
	var report domain.ProcessReport
	now := s.Now()

	reminders, err := s.reminderRepo.FindDueReminders(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to query due reminders")
		report.Failed++
		return report
	}
	report.Due = len(reminders)

	for _, reminder := range reminders {
		s.notifyDue(ctx, reminder, now)

		err := s.processReminder(ctx, reminder, now)
		switch {
		case errors.Is(err, errNoLongerDue):
			report.Skipped++
		case err != nil:
			report.Failed++
			s.LogError(ctx, err, "Reminder processing failed", slog.String("reminder_id", reminder.ReminderID))
			s.notify(ctx, reminder, dto.NotifyRequest{
				Title:     "Reminder Transaction Failed",
				Message:   fmt.Sprintf("The transaction for %q could not be created: %v", reminder.Title, err),
				Kind:      domain.NotificationReminderFailed,
				Priority:  domain.PriorityHigh,
				DedupeKey: "reminder-failed:" + ReminderDedupeKey(reminder.ReminderID, reminder.DueDate),
			})
		default:
			report.Executed++
		}
	}

	if report.Due > 0 {
		s.LogInfo(ctx, "Processed due reminders",
			slog.Int("due", report.Due),
			slog.Int("executed", report.Executed),
			slog.Int("skipped", report.Skipped),
			slog.Int("failed", report.Failed))
	}
	return report
}

func (s *reminderService) notifyDue(ctx context.Context, reminder domain.Reminder, now time.Time) {
	message := reminder.Title
	if reminder.Amount != nil {
		message = fmt.Sprintf("%s: %s due", reminder.Title, reminder.Amount.String())
	}
	s.notify(ctx, reminder, dto.NotifyRequest{
		Title:     "Reminder: " + reminder.Title,
		Message:   message,
		Kind:      domain.NotificationReminder,
		Priority:  domain.ReminderPriority(reminder.DueDate, now),
		DedupeKey: ReminderDedupeKey(reminder.ReminderID, reminder.DueDate),
	})
}

// processReminder runs the auto-create and the state advance of one occurrence
// as a single unit of work.
func (s *reminderService) processReminder(ctx context.Context, snapshot domain.Reminder, now time.Time) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		reminder, err := s.reminderRepo.FindReminderByIDForUpdate(ctx, snapshot.ReminderID)
		if err != nil {
			return err
		}
		if !reminder.IsDue(now) || !reminder.DueDate.Equal(snapshot.DueDate) {
			return errNoLongerDue
		}
		// A one-off reminder waits in OVERDUE for the user once its occurrence ran.
		if !reminder.IsRecurring && reminder.AlreadyTriggered() && reminder.Status == domain.ReminderOverdue {
			return errNoLongerDue
		}

		if reminder.CanAutoCreate() && !reminder.AlreadyTriggered() {
			kind := domain.Expense
			if reminder.TransactionKind != nil {
				kind = *reminder.TransactionKind
			}
			occurrence := reminder.DueDate
			_, err := s.transactionSvc.CreateTransaction(ctx, reminder.UserID, dto.CreateTransactionRequest{
				WalletID:     *reminder.WalletID,
				Kind:         kind,
				Amount:       *reminder.Amount,
				CategoryID:   reminder.CategoryID,
				Date:         &now,
				Notes:        reminder.Title,
				Source:       domain.SourceReminder,
				SourceID:     &reminder.ReminderID,
				OccurrenceAt: &occurrence,
			})
			if err != nil {
				return err
			}
		}
		due := reminder.DueDate
		reminder.TriggeredFor = &due

		if reminder.IsRecurring {
			reminder.AdvanceOccurrence(now)
		} else {
			reminder.Status = domain.ReminderOverdue
		}
		reminder.Touch(reminder.UserID, now)
		return s.reminderRepo.UpdateReminder(ctx, *reminder)
	})
}

// notify fills in the reminder references and swallows delivery errors.
func (s *reminderService) notify(ctx context.Context, reminder domain.Reminder, req dto.NotifyRequest) {
	if s.notifier == nil {
		return
	}
	req.UserID = reminder.UserID
	req.RelatedEntityType = domain.EntityReminder
	req.RelatedEntityID = reminder.ReminderID
	data := map[string]any{"dueDate": reminder.DueDate}
	if reminder.Amount != nil {
		data["amount"] = reminder.Amount.String()
	}
	req.Data = data
	if _, err := s.notifier.Notify(ctx, req); err != nil {
		s.LogError(ctx, err, "Failed to notify about reminder", slog.String("reminder_id", reminder.ReminderID))
	}
}
