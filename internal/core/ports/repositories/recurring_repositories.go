package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// RecurringRuleReader defines read operations for recurring rules
type RecurringRuleReader interface {
	FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error)
	ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)

	// FindDueRules returns active rules whose next execution is at or before now,
	// that have not ended and have not exhausted their execution budget,
	// ordered by next execution date.
	FindDueRules(ctx context.Context, now time.Time) ([]domain.RecurringRule, error)
}

// RecurringRuleWriter defines write operations for recurring rules
type RecurringRuleWriter interface {
	SaveRule(ctx context.Context, rule domain.RecurringRule) error
	UpdateRule(ctx context.Context, rule domain.RecurringRule) error
	DeleteRule(ctx context.Context, ruleID string) error

	// FindRuleByIDForUpdate locks the rule until the surrounding transaction ends.
	FindRuleByIDForUpdate(ctx context.Context, ruleID string) (*domain.RecurringRule, error)
}

// RecurringRuleRepositoryFacade combines all recurring rule repository interfaces
type RecurringRuleRepositoryFacade interface {
	RecurringRuleReader
	RecurringRuleWriter
}
