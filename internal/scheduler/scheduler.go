package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/clock"
)

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler interval must be at least one minute")

// TickReport summarizes one pass over the reminder and recurring engines.
type TickReport struct {
	TickID    string               `json:"tickID"`
	StartedAt time.Time            `json:"startedAt"`
	Duration  time.Duration        `json:"duration"`
	Overdue   int64                `json:"overdue"`
	Reminders domain.ProcessReport `json:"reminders"`
	Recurring domain.ProcessReport `json:"recurring"`
}

// Scheduler periodically drives the reminder and recurring engines.
// There should be a single instance per process.
type Scheduler struct {
	reminders portssvc.ReminderEngineSvc
	recurring portssvc.RecurringEngineSvc
	clock     clock.Clock
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// tickMu keeps ticks sequential even when Tick is also called by hand.
	tickMu sync.Mutex
}

// New creates a stopped scheduler. A nil clk means the system clock.
func New(reminders portssvc.ReminderEngineSvc, recurring portssvc.RecurringEngineSvc, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Scheduler{
		reminders: reminders,
		recurring: recurring,
		clock:     clk,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start runs one tick immediately and then one every intervalMinutes until
// Stop is called or ctx is cancelled. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context, intervalMinutes int) error {
	if intervalMinutes < 1 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	interval := time.Duration(intervalMinutes) * time.Minute
	s.logger.Info("Starting scheduler", slog.Duration("interval", interval))
	go s.run(runCtx, interval, s.done)
	return nil
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Cancelling ctx ends the loop; a tick already started keeps its store calls alive.
	tickCtx := context.WithoutCancel(ctx)

	s.Tick(tickCtx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.Tick(tickCtx)
		}
	}
}

// Stop prevents future ticks and waits for an in-flight tick to run to completion.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the periodic driver is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Tick runs the overdue sweep, the reminder pass and the recurring pass in
// that order. Per-item failures are absorbed by the engines.
func (s *Scheduler) Tick(ctx context.Context) TickReport {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	report := TickReport{TickID: uuid.NewString(), StartedAt: s.clock.Now()}
	logger := s.logger.With(slog.String("tick_id", report.TickID))
	ctx = middleware.WithLogger(ctx, logger)

	overdue, err := s.reminders.SweepOverdue(ctx)
	if err != nil {
		logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
	}
	report.Overdue = overdue
	report.Reminders = s.reminders.ProcessDueReminders(ctx)
	report.Recurring = s.recurring.ProcessDueRules(ctx)
	report.Duration = s.clock.Now().Sub(report.StartedAt)

	logger.Info("Scheduler tick finished",
		slog.Int64("overdue", report.Overdue),
		slog.Int("reminders_due", report.Reminders.Due),
		slog.Int("reminders_failed", report.Reminders.Failed),
		slog.Int("rules_due", report.Recurring.Due),
		slog.Int("rules_executed", report.Recurring.Executed),
		slog.Int("rules_failed", report.Recurring.Failed),
		slog.Duration("duration", report.Duration))
	return report
}
