package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderStatus is the reminder state machine.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "PENDING"
	ReminderOverdue   ReminderStatus = "OVERDUE"
	ReminderCompleted ReminderStatus = "COMPLETED"
)

// Reminder is a user-facing due-date notification, optionally paired with an
// automatically created transaction.
type Reminder struct {
	ReminderID            string           `json:"reminderID"`
	UserID                string           `json:"userID"`
	Title                 string           `json:"title"`
	Description           string           `json:"description"`
	Amount                *decimal.Decimal `json:"amount,omitempty"`
	DueDate               time.Time        `json:"dueDate"`
	Frequency             Frequency        `json:"frequency"`
	CustomIntervalDays    *int             `json:"customIntervalDays,omitempty"`
	IsRecurring           bool             `json:"isRecurring"`
	WalletID              *string          `json:"walletID,omitempty"`
	CategoryID            *string          `json:"categoryID,omitempty"`
	AutoCreateTransaction bool             `json:"autoCreateTransaction"`
	TransactionKind       *TransactionKind `json:"transactionKind,omitempty"`
	Status                ReminderStatus   `json:"status"`
	SnoozeUntil           *time.Time       `json:"snoozeUntil,omitempty"`
	CompletedCount        int              `json:"completedCount"`
	LastCompleted         *time.Time       `json:"lastCompleted,omitempty"`
	NextDue               *time.Time       `json:"nextDue,omitempty"`
	TriggeredFor          *time.Time       `json:"triggeredFor,omitempty"` // dueDate occurrence already processed
	IsActive              bool             `json:"isActive"`
	AuditFields
}

// IsSnoozed reports whether the reminder is hidden at now.
func (r Reminder) IsSnoozed(now time.Time) bool {
	return r.SnoozeUntil != nil && r.SnoozeUntil.After(now)
}

// IsDue mirrors the due-reminder query used by the store.
func (r Reminder) IsDue(now time.Time) bool {
	if !r.IsActive || r.Status == ReminderCompleted {
		return false
	}
	return !r.DueDate.After(now) && !r.IsSnoozed(now)
}

// CanAutoCreate reports whether processing this reminder should post a transaction.
func (r Reminder) CanAutoCreate() bool {
	return r.AutoCreateTransaction && r.Amount != nil && r.WalletID != nil
}

// AlreadyTriggered reports whether the current occurrence has been processed before.
func (r Reminder) AlreadyTriggered() bool {
	return r.TriggeredFor != nil && r.TriggeredFor.Equal(r.DueDate)
}

// AdvanceOccurrence moves a recurring reminder to its next occurrence.
func (r *Reminder) AdvanceOccurrence(now time.Time) {
	next := Advance(r.DueDate, r.Frequency, intOrZero(r.CustomIntervalDays))
	r.DueDate = next
	r.NextDue = &next
	r.SnoozeUntil = nil
	r.Status = ReminderPending
	r.CompletedCount++
	r.LastCompleted = &now
}

// ReminderPriority derives notification priority from due-date proximity.
func ReminderPriority(due, now time.Time) NotificationPriority {
	if !due.After(now) || sameDay(due, now) {
		return PriorityHigh
	}
	if due.Sub(now) <= 24*time.Hour {
		return PriorityMedium
	}
	return PriorityLow
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
