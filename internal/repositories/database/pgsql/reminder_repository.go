package pgsql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

type PgxReminderRepository struct {
	*BaseRepository
}

func newPgxReminderRepository(base *BaseRepository) *PgxReminderRepository {
	return &PgxReminderRepository{BaseRepository: base}
}

var _ portsrepo.ReminderRepositoryFacade = (*PgxReminderRepository)(nil)

const reminderColumns = `reminder_id, user_id, title, description, amount, due_date, frequency, custom_interval_days,
	is_recurring, wallet_id, category_id, auto_create_transaction, transaction_kind, status, snooze_until,
	completed_count, last_completed, next_due, triggered_for, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReminder(row scanner) (*domain.Reminder, error) {
	var (
		r      domain.Reminder
		amount decimal.NullDecimal
	)
	err := row.Scan(&r.ReminderID, &r.UserID, &r.Title, &r.Description, &amount, &r.DueDate, &r.Frequency, &r.CustomIntervalDays,
		&r.IsRecurring, &r.WalletID, &r.CategoryID, &r.AutoCreateTransaction, &r.TransactionKind, &r.Status, &r.SnoozeUntil,
		&r.CompletedCount, &r.LastCompleted, &r.NextDue, &r.TriggeredFor, &r.IsActive,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		r.Amount = &amount.Decimal
	}
	return &r, nil
}

func nullAmount(amount *decimal.Decimal) decimal.NullDecimal {
	if amount == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *amount, Valid: true}
}

func (r *PgxReminderRepository) findOne(ctx context.Context, query, reminderID string) (*domain.Reminder, error) {
	reminder, err := scanReminder(r.q(ctx).QueryRow(ctx, query, reminderID))
	if err != nil {
		return nil, mapErr(err, "find", "reminder", reminderID)
	}
	return reminder, nil
}

func (r *PgxReminderRepository) listReminders(ctx context.Context, what, query string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "list", "reminders", what)
	}
	defer rows.Close()

	reminders := []domain.Reminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, mapErr(err, "scan", "reminder", what)
		}
		reminders = append(reminders, *reminder)
	}
	return reminders, mapErr(rows.Err(), "list", "reminders", what)
}

func (r *PgxReminderRepository) FindReminderByID(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return r.findOne(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE reminder_id = $1`, reminderID)
}

func (r *PgxReminderRepository) FindReminderByIDForUpdate(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return r.findOne(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE reminder_id = $1 FOR UPDATE`, reminderID)
}

func (r *PgxReminderRepository) ListRemindersByUser(ctx context.Context, userID string, status *domain.ReminderStatus) ([]domain.Reminder, error) {
	return r.listReminders(ctx, userID, `
		SELECT `+reminderColumns+` FROM reminders
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2::text)
		ORDER BY due_date, reminder_id`, userID, status)
}

func (r *PgxReminderRepository) FindDueReminders(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	return r.listReminders(ctx, "due", `
		SELECT `+reminderColumns+` FROM reminders
		WHERE is_active
		  AND status IN ('PENDING', 'OVERDUE')
		  AND due_date <= $1
		  AND (snooze_until IS NULL OR snooze_until <= $1)
		ORDER BY due_date, reminder_id`, now)
}

func (r *PgxReminderRepository) SaveReminder(ctx context.Context, rem domain.Reminder) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO reminders (`+reminderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		rem.ReminderID, rem.UserID, rem.Title, rem.Description, nullAmount(rem.Amount), rem.DueDate, rem.Frequency, rem.CustomIntervalDays,
		rem.IsRecurring, rem.WalletID, rem.CategoryID, rem.AutoCreateTransaction, rem.TransactionKind, rem.Status, rem.SnoozeUntil,
		rem.CompletedCount, rem.LastCompleted, rem.NextDue, rem.TriggeredFor, rem.IsActive,
		rem.CreatedAt, rem.CreatedBy, rem.LastUpdatedAt, rem.LastUpdatedBy)
	return mapErr(err, "save", "reminder", rem.ReminderID)
}

func (r *PgxReminderRepository) UpdateReminder(ctx context.Context, rem domain.Reminder) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE reminders
		SET title = $2, description = $3, amount = $4, due_date = $5, frequency = $6, custom_interval_days = $7,
			is_recurring = $8, wallet_id = $9, category_id = $10, auto_create_transaction = $11, transaction_kind = $12,
			status = $13, snooze_until = $14, completed_count = $15, last_completed = $16, next_due = $17,
			triggered_for = $18, is_active = $19, last_updated_at = $20, last_updated_by = $21
		WHERE reminder_id = $1`,
		rem.ReminderID, rem.Title, rem.Description, nullAmount(rem.Amount), rem.DueDate, rem.Frequency, rem.CustomIntervalDays,
		rem.IsRecurring, rem.WalletID, rem.CategoryID, rem.AutoCreateTransaction, rem.TransactionKind,
		rem.Status, rem.SnoozeUntil, rem.CompletedCount, rem.LastCompleted, rem.NextDue,
		rem.TriggeredFor, rem.IsActive, rem.LastUpdatedAt, rem.LastUpdatedBy)
	if err != nil {
		return mapErr(err, "update", "reminder", rem.ReminderID)
	}
	return expectOne(tag, "reminder", rem.ReminderID)
}

func (r *PgxReminderRepository) DeleteReminder(ctx context.Context, reminderID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM reminders WHERE reminder_id = $1`, reminderID)
	if err != nil {
		return mapErr(err, "delete", "reminder", reminderID)
	}
	return expectOne(tag, "reminder", reminderID)
}

// MarkOverdue flips PENDING reminders whose due date passed, skipping snoozed ones.
func (r *PgxReminderRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE reminders
		SET status = 'OVERDUE', last_updated_at = $1
		WHERE is_active
		  AND status = 'PENDING'
		  AND due_date < $1
		  AND (snooze_until IS NULL OR snooze_until <= $1)`, now)
	if err != nil {
		return 0, mapErr(err, "mark overdue", "reminders", "")
	}
	return tag.RowsAffected(), nil
}
