package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// RecurringRuleSvc defines the user-facing CRUD on recurring rules
type RecurringRuleSvc interface {
	CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error)
	UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRecurringRuleRequest) (*domain.RecurringRule, error)
	ToggleRule(ctx context.Context, userID string, ruleID string, active bool) (*domain.RecurringRule, error)
	DeleteRule(ctx context.Context, userID string, ruleID string) error
	GetRule(ctx context.Context, userID string, ruleID string) (*domain.RecurringRule, error)
	ListRules(ctx context.Context, userID string) ([]domain.RecurringRule, error)
}

// RecurringEngineSvc is the scheduler-facing side of the recurring engine.
type RecurringEngineSvc interface {
	// ProcessDueRules executes every due rule once. Per-rule failures are logged
	// and reported, never returned.
	ProcessDueRules(ctx context.Context) domain.ProcessReport
}

// RecurringSvcFacade combines the recurring interfaces
type RecurringSvcFacade interface {
	RecurringRuleSvc
	RecurringEngineSvc
}
