package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringRule is a template that periodically materializes into a Transaction.
type RecurringRule struct {
	RuleID             string          `json:"ruleID"`
	UserID             string          `json:"userID"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Kind               TransactionKind `json:"kind"`
	Frequency          Frequency       `json:"frequency"`
	CustomIntervalDays *int            `json:"customIntervalDays,omitempty"`
	WalletID           string          `json:"walletID"`
	CategoryID         *string         `json:"categoryID,omitempty"`
	NextExecutionDate  time.Time       `json:"nextExecutionDate"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	MaxExecutions      *int            `json:"maxExecutions,omitempty"`
	ExecutionCount     int             `json:"executionCount"`
	LastExecutionDate  *time.Time      `json:"lastExecutionDate,omitempty"`
	IsActive           bool            `json:"isActive"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"` // set when the engine retires the rule
	AuditFields
}

// IsDue mirrors the due-rule query used by the store.
func (r RecurringRule) IsDue(now time.Time) bool {
	if !r.IsActive || r.NextExecutionDate.After(now) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(now) {
		return false
	}
	return !r.IsExhausted()
}

// IsExhausted reports whether the rule has used up its execution budget.
func (r RecurringRule) IsExhausted() bool {
	return r.MaxExecutions != nil && r.ExecutionCount >= *r.MaxExecutions
}

// CanResume reports whether the rule still has an occurrence the engine could
// execute at or after now.
func (r RecurringRule) CanResume(now time.Time) bool {
	if r.CompletedAt != nil || r.IsExhausted() {
		return false
	}
	if r.EndDate == nil {
		return true
	}
	return !r.EndDate.Before(now) && !r.EndDate.Before(r.NextExecutionDate)
}

// NextAfter computes the occurrence following the current NextExecutionDate.
func (r RecurringRule) NextAfter() time.Time {
	return Advance(r.NextExecutionDate, r.Frequency, intOrZero(r.CustomIntervalDays))
}

// ShouldDeactivate reports whether the rule is finished once next is the following occurrence.
func (r RecurringRule) ShouldDeactivate(next time.Time) bool {
	if r.IsExhausted() {
		return true
	}
	return r.EndDate != nil && next.After(*r.EndDate)
}

// Complete retires the rule for good. Unlike a user pause it cannot be undone.
func (r *RecurringRule) Complete(now time.Time) {
	r.IsActive = false
	r.CompletedAt = &now
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
