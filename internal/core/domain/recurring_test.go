package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecurringRuleIsDue(t *testing.T) {
	now := day(2024, 1, 15)
	end := day(2024, 1, 10)
	limit := 2

	base := RecurringRule{IsActive: true, NextExecutionDate: now}
	assert.True(t, base.IsDue(now))

	future := base
	future.NextExecutionDate = now.Add(time.Minute)
	assert.False(t, future.IsDue(now))

	paused := base
	paused.IsActive = false
	assert.False(t, paused.IsDue(now))

	ended := base
	ended.EndDate = &end
	assert.False(t, ended.IsDue(now))

	exhausted := base
	exhausted.MaxExecutions = &limit
	exhausted.ExecutionCount = 2
	assert.False(t, exhausted.IsDue(now))
}

func TestRecurringRuleShouldDeactivate(t *testing.T) {
	end := day(2024, 2, 1)
	limit := 3
	r := RecurringRule{Frequency: Weekly, NextExecutionDate: day(2024, 1, 22), EndDate: &end, MaxExecutions: &limit}

	assert.False(t, r.ShouldDeactivate(r.NextAfter()), "2024-01-29 is before the end date")

	r.NextExecutionDate = day(2024, 1, 29)
	assert.True(t, r.ShouldDeactivate(r.NextAfter()))

	r.EndDate = nil
	r.ExecutionCount = 3
	assert.True(t, r.ShouldDeactivate(r.NextAfter()))
}

func TestRecurringRuleComplete(t *testing.T) {
	r := RecurringRule{IsActive: true}
	now := day(2024, 1, 15)
	r.Complete(now)
	assert.False(t, r.IsActive)
	assert.Equal(t, &now, r.CompletedAt)
}

func TestRecurringRuleCanResume(t *testing.T) {
	now := day(2024, 1, 15)
	limit := 1

	paused := RecurringRule{NextExecutionDate: day(2024, 1, 20)}
	assert.True(t, paused.CanResume(now))

	exhausted := paused
	exhausted.MaxExecutions = &limit
	exhausted.ExecutionCount = 1
	assert.False(t, exhausted.CanResume(now))

	pastEnd := paused
	end := day(2024, 1, 10)
	pastEnd.EndDate = &end
	assert.False(t, pastEnd.CanResume(now))

	endBeforeNext := paused
	end2 := day(2024, 1, 18)
	endBeforeNext.EndDate = &end2
	assert.False(t, endBeforeNext.CanResume(now))

	completed := paused
	completed.CompletedAt = &now
	assert.False(t, completed.CanResume(now))
}
