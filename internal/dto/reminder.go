package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReminderRequest defines a new reminder.
type CreateReminderRequest struct {
	Title                 string                  `json:"title" binding:"required,max=200"`
	Description           string                  `json:"description" binding:"max=1000"`
	Amount                *decimal.Decimal        `json:"amount"`
	DueDate               time.Time               `json:"dueDate" binding:"required"`
	Frequency             domain.Frequency        `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY CUSTOM"`
	CustomIntervalDays    *int                    `json:"customIntervalDays" binding:"omitempty,min=1,max=3660"`
	IsRecurring           bool                    `json:"isRecurring"`
	WalletID              *string                 `json:"walletID"`
	CategoryID            *string                 `json:"categoryID"`
	AutoCreateTransaction bool                    `json:"autoCreateTransaction"`
	TransactionKind       *domain.TransactionKind `json:"transactionKind" binding:"omitempty,oneof=INCOME EXPENSE"`
}

// UpdateReminderRequest enumerates the user-editable fields of a reminder.
type UpdateReminderRequest struct {
	Title                 *string                 `json:"title" binding:"omitempty,min=1,max=200"`
	Description           *string                 `json:"description" binding:"omitempty,max=1000"`
	Amount                *decimal.Decimal        `json:"amount"`
	DueDate               *time.Time              `json:"dueDate"`
	Frequency             *domain.Frequency       `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY CUSTOM"`
	CustomIntervalDays    *int                    `json:"customIntervalDays" binding:"omitempty,min=1,max=3660"`
	IsRecurring           *bool                   `json:"isRecurring"`
	WalletID              *string                 `json:"walletID"`
	CategoryID            *string                 `json:"categoryID"`
	AutoCreateTransaction *bool                   `json:"autoCreateTransaction"`
	TransactionKind       *domain.TransactionKind `json:"transactionKind" binding:"omitempty,oneof=INCOME EXPENSE"`
}

// SnoozeReminderRequest hides a reminder until the given time.
type SnoozeReminderRequest struct {
	Until time.Time `json:"until" binding:"required"`
}
