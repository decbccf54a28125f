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

// errNoLongerDue signals that another writer already handled the occurrence.
var errNoLongerDue = errors.New("no longer due")

// recurringService holds recurring rules and executes them on scheduler ticks.
type recurringService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	recurringRepo  portsrepo.RecurringRuleRepositoryFacade
	walletRepo     portsrepo.WalletReader
	transactionSvc portssvc.TransactionWriterSvc
	notifier       portssvc.Notifier
}

// NewRecurringService creates the recurring transaction engine.
func NewRecurringService(
	txManager portsrepo.TransactionManager,
	recurringRepo portsrepo.RecurringRuleRepositoryFacade,
	walletRepo portsrepo.WalletReader,
	transactionSvc portssvc.TransactionWriterSvc,
	notifier portssvc.Notifier,
	options ...ServiceOption,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		BaseService:    newBaseService(options...),
		txManager:      txManager,
		recurringRepo:  recurringRepo,
		walletRepo:     walletRepo,
		transactionSvc: transactionSvc,
		notifier:       notifier,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidation)
	}
	if _, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, req.WalletID); err != nil {
		return nil, err
	}

	now := s.Now()
	rule := domain.RecurringRule{
		RuleID:             uuid.NewString(),
		UserID:             userID,
		Amount:             req.Amount,
		Description:        req.Description,
		Kind:               req.Kind,
		Frequency:          req.Frequency,
		CustomIntervalDays: req.CustomIntervalDays,
		WalletID:           req.WalletID,
		CategoryID:         req.CategoryID,
		NextExecutionDate:  req.StartDate,
		EndDate:            req.EndDate,
		MaxExecutions:      req.MaxExecutions,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(userID, now),
	}

	if err := s.recurringRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save recurring rule", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Recurring rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("frequency", string(rule.Frequency)),
		slog.Time("next_execution_date", rule.NextExecutionDate))
	return &rule, nil
}

func (s *recurringService) findOwnedRule(ctx context.Context, userID, ruleID string) (*domain.RecurringRule, error) {
	rule, err := s.recurringRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.UserID != userID {
		return nil, fmt.Errorf("%w: recurring rule %s", apperrors.ErrNotFound, ruleID)
	}
	return rule, nil
}

func (s *recurringService) GetRule(ctx context.Context, userID string, ruleID string) (*domain.RecurringRule, error) {
	return s.findOwnedRule(ctx, userID, ruleID)
}

func (s *recurringService) ListRules(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	return s.recurringRepo.ListRulesByUser(ctx, userID)
}

func (s *recurringService) UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRecurringRuleRequest) (*domain.RecurringRule, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := requirePositive("amount", *req.Amount); err != nil {
			return nil, err
		}
	}

	var updated domain.RecurringRule
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.findOwnedRule(ctx, userID, ruleID); err != nil {
			return err
		}
		rule, err := s.recurringRepo.FindRuleByIDForUpdate(ctx, ruleID)
		if err != nil {
			return err
		}

		if req.Amount != nil {
			rule.Amount = *req.Amount
		}
		if req.Description != nil {
			rule.Description = *req.Description
		}
		if req.Frequency != nil {
			rule.Frequency = *req.Frequency
		}
		if req.CustomIntervalDays != nil {
			rule.CustomIntervalDays = req.CustomIntervalDays
		}
		if req.CategoryID != nil {
			rule.CategoryID = req.CategoryID
		}
		if req.NextExecutionDate != nil {
			rule.NextExecutionDate = *req.NextExecutionDate
		}
		if req.ClearEndDate {
			rule.EndDate = nil
		} else if req.EndDate != nil {
			rule.EndDate = req.EndDate
		}
		if req.ClearMaxExecutions {
			rule.MaxExecutions = nil
		} else if req.MaxExecutions != nil {
			rule.MaxExecutions = req.MaxExecutions
		}
		now := s.Now()
		// Lowering the budget to what already ran finishes the rule.
		if rule.CompletedAt == nil && rule.IsExhausted() {
			rule.Complete(now)
		}
		if rule.IsActive && !rule.CanResume(now) {
			return fmt.Errorf("%w: endDate leaves no execution for an active rule", apperrors.ErrValidation)
		}
		rule.Touch(userID, now)

		if err := s.recurringRepo.UpdateRule(ctx, *rule); err != nil {
			return err
		}
		updated = *rule
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update recurring rule", slog.String("rule_id", ruleID))
		return nil, err
	}
	return &updated, nil
}

// ToggleRule lets a user pause and resume a rule. A rule that is finished or
// would never be due again cannot be resumed.
func (s *recurringService) ToggleRule(ctx context.Context, userID string, ruleID string, active bool) (*domain.RecurringRule, error) {
	var updated domain.RecurringRule
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.findOwnedRule(ctx, userID, ruleID); err != nil {
			return err
		}
		rule, err := s.recurringRepo.FindRuleByIDForUpdate(ctx, ruleID)
		if err != nil {
			return err
		}
		now := s.Now()
		if active && !rule.CanResume(now) {
			return fmt.Errorf("%w: recurring rule %s has no executions left", apperrors.ErrInvalidOperation, ruleID)
		}
		rule.IsActive = active
		rule.Touch(userID, now)
		if err := s.recurringRepo.UpdateRule(ctx, *rule); err != nil {
			return err
		}
		updated = *rule
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Recurring rule toggled", slog.String("rule_id", ruleID), slog.Bool("active", active))
	return &updated, nil
}

func (s *recurringService) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	if _, err := s.findOwnedRule(ctx, userID, ruleID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeleteRule(ctx, ruleID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring rule", slog.String("rule_id", ruleID))
		return err
	}
	return nil
}

// ProcessDueRules executes every rule due at the current time, one at a time.
func (s *recurringService) ProcessDueRules(ctx context.Context) domain.ProcessReport {
	var report domain.ProcessReport
	now := s.Now()

	rules, err := s.recurringRepo.FindDueRules(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to query due recurring rules")
		report.Failed++
		return report
	}
	report.Due = len(rules)

	for _, rule := range rules {
		outcome, err := s.processRule(ctx, rule, now)
		switch {
		case errors.Is(err, errNoLongerDue):
			s.LogDebug(ctx, "Recurring rule already handled", slog.String("rule_id", rule.RuleID))
		case err != nil:
			report.Failed++
			s.LogError(ctx, err, "Recurring rule execution failed", slog.String("rule_id", rule.RuleID))
			s.notify(ctx, rule, domain.NotificationRecurringFailed, domain.PriorityHigh,
				"Recurring Transaction Failed",
				fmt.Sprintf("%q could not be executed: %v", rule.Description, err),
				fmt.Sprintf("recurring-failed:%s:%d", rule.RuleID, rule.NextExecutionDate.Unix()))
		case outcome == ruleSkipped, outcome == ruleRetired:
			report.Skipped++
		default:
			report.Executed++
		}
	}

	if report.Due > 0 {
		s.LogInfo(ctx, "Processed due recurring rules",
			slog.Int("due", report.Due),
			slog.Int("executed", report.Executed),
			slog.Int("skipped", report.Skipped),
			slog.Int("failed", report.Failed))
	}
	return report
}

type ruleOutcome int

const (
	ruleExecuted ruleOutcome = iota
	ruleSkipped
	ruleRetired
)

// processRule runs one rule occurrence as a single unit of work. Notifications
// are sent after commit so a rolled back unit never tells the user anything.
func (s *recurringService) processRule(ctx context.Context, snapshot domain.RecurringRule, now time.Time) (ruleOutcome, error) {
	var (
		outcome     ruleOutcome
		executed    domain.RecurringRule
		deactivated bool
	)

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		rule, err := s.recurringRepo.FindRuleByIDForUpdate(ctx, snapshot.RuleID)
		if err != nil {
			return err
		}
		// Compare-and-swap on the occurrence: a concurrent tick or user edit wins.
		if !rule.IsDue(now) || !rule.NextExecutionDate.Equal(snapshot.NextExecutionDate) {
			return errNoLongerDue
		}

		wallet, err := s.walletRepo.FindWalletByID(ctx, rule.WalletID)
		if err != nil {
			return err
		}
		if !wallet.IsActive {
			// A soft-deleted wallet never comes back, so neither does the rule.
			outcome = ruleRetired
			rule.Complete(now)
			rule.Touch(rule.UserID, now)
			executed = *rule
			return s.recurringRepo.UpdateRule(ctx, *rule)
		}

		next := rule.NextAfter()
		delta := domain.SignedDelta(rule.Kind, "", rule.Amount)
		if !wallet.CanApply(delta) {
			// Underfunded: move on without executing so the rule does not refire every tick.
			outcome = ruleSkipped
			if rule.EndDate != nil && next.After(*rule.EndDate) {
				rule.Complete(now)
				deactivated = true
			} else {
				rule.NextExecutionDate = next
			}
			rule.Touch(rule.UserID, now)
			executed = *rule
			return s.recurringRepo.UpdateRule(ctx, *rule)
		}

		occurrence := rule.NextExecutionDate
		_, err = s.transactionSvc.CreateTransaction(ctx, rule.UserID, dto.CreateTransactionRequest{
			WalletID:     rule.WalletID,
			Kind:         rule.Kind,
			Amount:       rule.Amount,
			CategoryID:   rule.CategoryID,
			Date:         &now,
			Notes:        rule.Description,
			Source:       domain.SourceRecurring,
			SourceID:     &rule.RuleID,
			OccurrenceAt: &occurrence,
		})
		if err != nil {
			return err
		}

		rule.ExecutionCount++
		rule.LastExecutionDate = &now
		if rule.ShouldDeactivate(next) {
			rule.Complete(now)
			deactivated = true
		} else {
			rule.NextExecutionDate = next
		}
		rule.Touch(rule.UserID, now)
		executed = *rule
		return s.recurringRepo.UpdateRule(ctx, *rule)
	})
	if err != nil {
		return outcome, err
	}

	switch outcome {
	case ruleRetired:
		s.LogInfo(ctx, "Recurring rule retired, its wallet was deleted", slog.String("rule_id", executed.RuleID))
		s.notify(ctx, executed, domain.NotificationRecurringDone, domain.PriorityHigh,
			"Recurring Transaction Stopped",
			fmt.Sprintf("%q has stopped because its wallet was deleted", executed.Description),
			"")
	case ruleSkipped:
		s.LogInfo(ctx, "Recurring rule skipped for insufficient balance", slog.String("rule_id", executed.RuleID))
		s.notify(ctx, executed, domain.NotificationRecurringSkipped, domain.PriorityHigh,
			"Recurring Transaction Skipped",
			fmt.Sprintf("%q was skipped: insufficient balance for %s", executed.Description, executed.Amount.String()),
			"")
	default:
		s.notify(ctx, executed, domain.NotificationRecurringSuccess, domain.PriorityLow,
			"Recurring Transaction Executed",
			fmt.Sprintf("%q for %s was recorded", executed.Description, executed.Amount.String()),
			"")
	}
	if deactivated {
		s.notify(ctx, executed, domain.NotificationRecurringDone, domain.PriorityLow,
			"Recurring Transaction Completed",
			fmt.Sprintf("%q has completed after %d executions", executed.Description, executed.ExecutionCount),
			"")
	}
	return outcome, nil
}

// notify is fire-and-forget: failures are logged and never reach the tick.
func (s *recurringService) notify(ctx context.Context, rule domain.RecurringRule, kind domain.NotificationKind, priority domain.NotificationPriority, title, message, dedupeKey string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, dto.NotifyRequest{
		UserID:            rule.UserID,
		Title:             title,
		Message:           message,
		Kind:              kind,
		Priority:          priority,
		RelatedEntityType: domain.EntityRecurringRule,
		RelatedEntityID:   rule.RuleID,
		Data: map[string]any{
			"amount":            rule.Amount.String(),
			"walletID":          rule.WalletID,
			"executionCount":    rule.ExecutionCount,
			"nextExecutionDate": rule.NextExecutionDate,
		},
		DedupeKey: dedupeKey,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to notify about recurring rule", slog.String("rule_id", rule.RuleID), slog.String("kind", string(kind)))
	}
}
