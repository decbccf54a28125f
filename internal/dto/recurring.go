package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringRuleRequest defines a new recurring transaction rule.
type CreateRecurringRuleRequest struct {
	Amount             decimal.Decimal        `json:"amount"`
	Description        string                 `json:"description" binding:"required,max=500"`
	Kind               domain.TransactionKind `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
	Frequency          domain.Frequency       `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY CUSTOM"`
	CustomIntervalDays *int                   `json:"customIntervalDays" binding:"omitempty,min=1,max=3660"`
	WalletID           string                 `json:"walletID" binding:"required"`
	CategoryID         *string                `json:"categoryID"`
	StartDate          time.Time              `json:"startDate" binding:"required"`
	EndDate            *time.Time             `json:"endDate"`
	MaxExecutions      *int                   `json:"maxExecutions" binding:"omitempty,min=1"`
}

// UpdateRecurringRuleRequest enumerates the user-editable fields of a rule.
// Execution bookkeeping (count, last execution) is not editable.
type UpdateRecurringRuleRequest struct {
	Amount             *decimal.Decimal  `json:"amount"`
	Description        *string           `json:"description" binding:"omitempty,min=1,max=500"`
	Frequency          *domain.Frequency `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY CUSTOM"`
	CustomIntervalDays *int              `json:"customIntervalDays" binding:"omitempty,min=1,max=3660"`
	CategoryID         *string           `json:"categoryID"`
	NextExecutionDate  *time.Time        `json:"nextExecutionDate"`
	EndDate            *time.Time        `json:"endDate"`
	ClearEndDate       bool              `json:"clearEndDate"`
	MaxExecutions      *int              `json:"maxExecutions" binding:"omitempty,min=1"`
	ClearMaxExecutions bool              `json:"clearMaxExecutions"`
}

// ToggleRecurringRuleRequest switches a rule on or off.
type ToggleRecurringRuleRequest struct {
	Active bool `json:"active"`
}
