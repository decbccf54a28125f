package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

type PgxRecurringRuleRepository struct {
	*BaseRepository
}

func newPgxRecurringRuleRepository(base *BaseRepository) *PgxRecurringRuleRepository {
	return &PgxRecurringRuleRepository{BaseRepository: base}
}

var _ portsrepo.RecurringRuleRepositoryFacade = (*PgxRecurringRuleRepository)(nil)

const ruleColumns = `rule_id, user_id, amount, description, kind, frequency, custom_interval_days, wallet_id, category_id,
	next_execution_date, end_date, max_executions, execution_count, last_execution_date, is_active, completed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row scanner) (*domain.RecurringRule, error) {
	var r domain.RecurringRule
	err := row.Scan(&r.RuleID, &r.UserID, &r.Amount, &r.Description, &r.Kind, &r.Frequency, &r.CustomIntervalDays, &r.WalletID, &r.CategoryID,
		&r.NextExecutionDate, &r.EndDate, &r.MaxExecutions, &r.ExecutionCount, &r.LastExecutionDate, &r.IsActive, &r.CompletedAt,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PgxRecurringRuleRepository) findOne(ctx context.Context, query, ruleID string) (*domain.RecurringRule, error) {
	rule, err := scanRule(r.q(ctx).QueryRow(ctx, query, ruleID))
	if err != nil {
		return nil, mapErr(err, "find", "recurring rule", ruleID)
	}
	return rule, nil
}

func (r *PgxRecurringRuleRepository) listRules(ctx context.Context, what, query string, args ...any) ([]domain.RecurringRule, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "list", "recurring rules", what)
	}
	defer rows.Close()

	rules := []domain.RecurringRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, mapErr(err, "scan", "recurring rule", what)
		}
		rules = append(rules, *rule)
	}
	return rules, mapErr(rows.Err(), "list", "recurring rules", what)
}

func (r *PgxRecurringRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	return r.findOne(ctx, `SELECT `+ruleColumns+` FROM recurring_rules WHERE rule_id = $1`, ruleID)
}

func (r *PgxRecurringRuleRepository) FindRuleByIDForUpdate(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	return r.findOne(ctx, `SELECT `+ruleColumns+` FROM recurring_rules WHERE rule_id = $1 FOR UPDATE`, ruleID)
}

func (r *PgxRecurringRuleRepository) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	return r.listRules(ctx, userID, `
		SELECT `+ruleColumns+` FROM recurring_rules
		WHERE user_id = $1
		ORDER BY next_execution_date, rule_id`, userID)
}

func (r *PgxRecurringRuleRepository) FindDueRules(ctx context.Context, now time.Time) ([]domain.RecurringRule, error) {
	return r.listRules(ctx, "due", `
		SELECT `+ruleColumns+` FROM recurring_rules
		WHERE is_active
		  AND next_execution_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		  AND (max_executions IS NULL OR execution_count < max_executions)
		ORDER BY next_execution_date, rule_id`, now)
}

func (r *PgxRecurringRuleRepository) SaveRule(ctx context.Context, rule domain.RecurringRule) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO recurring_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		rule.RuleID, rule.UserID, rule.Amount, rule.Description, rule.Kind, rule.Frequency, rule.CustomIntervalDays, rule.WalletID, rule.CategoryID,
		rule.NextExecutionDate, rule.EndDate, rule.MaxExecutions, rule.ExecutionCount, rule.LastExecutionDate, rule.IsActive, rule.CompletedAt,
		rule.CreatedAt, rule.CreatedBy, rule.LastUpdatedAt, rule.LastUpdatedBy)
	return mapErr(err, "save", "recurring rule", rule.RuleID)
}

func (r *PgxRecurringRuleRepository) UpdateRule(ctx context.Context, rule domain.RecurringRule) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE recurring_rules
		SET amount = $2, description = $3, kind = $4, frequency = $5, custom_interval_days = $6, wallet_id = $7,
			category_id = $8, next_execution_date = $9, end_date = $10, max_executions = $11, execution_count = $12,
			last_execution_date = $13, is_active = $14, completed_at = $15, last_updated_at = $16, last_updated_by = $17
		WHERE rule_id = $1`,
		rule.RuleID, rule.Amount, rule.Description, rule.Kind, rule.Frequency, rule.CustomIntervalDays, rule.WalletID,
		rule.CategoryID, rule.NextExecutionDate, rule.EndDate, rule.MaxExecutions, rule.ExecutionCount,
		rule.LastExecutionDate, rule.IsActive, rule.CompletedAt, rule.LastUpdatedAt, rule.LastUpdatedBy)
	if err != nil {
		return mapErr(err, "update", "recurring rule", rule.RuleID)
	}
	return expectOne(tag, "recurring rule", rule.RuleID)
}

func (r *PgxRecurringRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM recurring_rules WHERE rule_id = $1`, ruleID)
	if err != nil {
		return mapErr(err, "delete", "recurring rule", ruleID)
	}
	return expectOne(tag, "recurring rule", ruleID)
}
