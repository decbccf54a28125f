package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

func (s *Store) FindRuleByID(_ context.Context, ruleID string) (*domain.RecurringRule, error) {
	var (
		r  domain.RecurringRule
		ok bool
	)
	s.read(func() { r, ok = s.rules[ruleID] })
	if !ok {
		return nil, notFound("recurring rule", ruleID)
	}
	return &r, nil
}

func (s *Store) FindRuleByIDForUpdate(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	return s.FindRuleByID(ctx, ruleID)
}

func (s *Store) ListRulesByUser(_ context.Context, userID string) ([]domain.RecurringRule, error) {
	out := []domain.RecurringRule{}
	s.read(func() {
		for _, r := range s.rules {
			if r.UserID == userID {
				out = append(out, r)
			}
		}
	})
	sortRules(out)
	return out, nil
}

func (s *Store) FindDueRules(_ context.Context, now time.Time) ([]domain.RecurringRule, error) {
	out := []domain.RecurringRule{}
	s.read(func() {
		for _, r := range s.rules {
			if r.IsDue(now) {
				out = append(out, r)
			}
		}
	})
	sortRules(out)
	return out, nil
}

func sortRules(rules []domain.RecurringRule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].NextExecutionDate.Equal(rules[j].NextExecutionDate) {
			return rules[i].RuleID < rules[j].RuleID
		}
		return rules[i].NextExecutionDate.Before(rules[j].NextExecutionDate)
	})
}

func (s *Store) SaveRule(ctx context.Context, rule domain.RecurringRule) error {
	return s.write(ctx, func() error {
		if _, exists := s.rules[rule.RuleID]; exists {
			return fmt.Errorf("%w: recurring rule %s", apperrors.ErrDuplicate, rule.RuleID)
		}
		s.rules[rule.RuleID] = rule
		return nil
	})
}

func (s *Store) UpdateRule(ctx context.Context, rule domain.RecurringRule) error {
	return s.write(ctx, func() error {
		if _, ok := s.rules[rule.RuleID]; !ok {
			return notFound("recurring rule", rule.RuleID)
		}
		s.rules[rule.RuleID] = rule
		return nil
	})
}

func (s *Store) DeleteRule(ctx context.Context, ruleID string) error {
	return s.write(ctx, func() error {
		if _, ok := s.rules[ruleID]; !ok {
			return notFound("recurring rule", ruleID)
		}
		delete(s.rules, ruleID)
		return nil
	})
}

func (s *Store) FindReminderByID(_ context.Context, reminderID string) (*domain.Reminder, error) {
	var (
		r  domain.Reminder
		ok bool
	)
	s.read(func() { r, ok = s.reminders[reminderID] })
	if !ok {
		return nil, notFound("reminder", reminderID)
	}
	return &r, nil
}

func (s *Store) FindReminderByIDForUpdate(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return s.FindReminderByID(ctx, reminderID)
}

func (s *Store) ListRemindersByUser(_ context.Context, userID string, status *domain.ReminderStatus) ([]domain.Reminder, error) {
	out := []domain.Reminder{}
	s.read(func() {
		for _, r := range s.reminders {
			if r.UserID == userID && (status == nil || r.Status == *status) {
				out = append(out, r)
			}
		}
	})
	sortReminders(out)
	return out, nil
}

func (s *Store) FindDueReminders(_ context.Context, now time.Time) ([]domain.Reminder, error) {
	out := []domain.Reminder{}
	s.read(func() {
		for _, r := range s.reminders {
			if r.IsDue(now) {
				out = append(out, r)
			}
		}
	})
	sortReminders(out)
	return out, nil
}

func sortReminders(reminders []domain.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].DueDate.Equal(reminders[j].DueDate) {
			return reminders[i].ReminderID < reminders[j].ReminderID
		}
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
}

func (s *Store) SaveReminder(ctx context.Context, reminder domain.Reminder) error {
	return s.write(ctx, func() error {
		if _, exists := s.reminders[reminder.ReminderID]; exists {
			return fmt.Errorf("%w: reminder %s", apperrors.ErrDuplicate, reminder.ReminderID)
		}
		s.reminders[reminder.ReminderID] = reminder
		return nil
	})
}

func (s *Store) UpdateReminder(ctx context.Context, reminder domain.Reminder) error {
	return s.write(ctx, func() error {
		if _, ok := s.reminders[reminder.ReminderID]; !ok {
			return notFound("reminder", reminder.ReminderID)
		}
		s.reminders[reminder.ReminderID] = reminder
		return nil
	})
}

func (s *Store) DeleteReminder(ctx context.Context, reminderID string) error {
	return s.write(ctx, func() error {
		if _, ok := s.reminders[reminderID]; !ok {
			return notFound("reminder", reminderID)
		}
		delete(s.reminders, reminderID)
		return nil
	})
}

func (s *Store) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.write(ctx, func() error {
		for id, r := range s.reminders {
			if r.IsActive && r.Status == domain.ReminderPending && r.DueDate.Before(now) && !r.IsSnoozed(now) {
				r.Status = domain.ReminderOverdue
				r.LastUpdatedAt = now
				s.reminders[id] = r
				n++
			}
		}
		return nil
	})
	return n, err
}
