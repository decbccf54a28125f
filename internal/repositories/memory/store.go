// Package memory provides an in-memory Ledger Store for development and tests.
//
// Units of work are serialized by a single lock and rolled back by restoring a
// snapshot of all tables, so WithinTx has the same all-or-nothing semantics as
// the Postgres store. Row locks are therefore implied by the unit lock.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

type txKey struct{}

// Store implements every Ledger Store port in memory.
type Store struct {
	unitMu sync.Mutex   // held for the whole of a unit of work
	mu     sync.RWMutex // guards the tables below

	wallets       map[string]domain.Wallet
	history       map[string][]domain.BalanceHistory // walletID -> entries in commit order
	historySeq    int64
	transactions  map[string]domain.Transaction
	occurrences   map[string]string // occurrenceKey -> transactionID
	transfers     map[string]domain.TransferRecord
	rules         map[string]domain.RecurringRule
	reminders     map[string]domain.Reminder
	notifications []domain.Notification
	preferences   map[string]domain.NotificationPreferences
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		wallets:      make(map[string]domain.Wallet),
		history:      make(map[string][]domain.BalanceHistory),
		transactions: make(map[string]domain.Transaction),
		occurrences:  make(map[string]string),
		transfers:    make(map[string]domain.TransferRecord),
		rules:        make(map[string]domain.RecurringRule),
		reminders:    make(map[string]domain.Reminder),
		preferences:  make(map[string]domain.NotificationPreferences),
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:        s,
		WalletRepo:       s,
		BalanceRepo:      s,
		TransactionRepo:  s,
		TransferRepo:     s,
		RecurringRepo:    s,
		ReminderRepo:     s,
		NotificationRepo: s,
		PreferenceRepo:   s,
	}
}

var (
	_ portsrepo.TransactionManager            = (*Store)(nil)
	_ portsrepo.WalletRepositoryFacade        = (*Store)(nil)
	_ portsrepo.BalanceHistoryRepository      = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade   = (*Store)(nil)
	_ portsrepo.TransferRepository            = (*Store)(nil)
	_ portsrepo.RecurringRuleRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReminderRepositoryFacade      = (*Store)(nil)
	_ portsrepo.NotificationRepository        = (*Store)(nil)
	_ portsrepo.PreferenceRepository          = (*Store)(nil)
)

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// WithinTx runs fn as one unit of work. Nested calls join the outer unit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.unitMu.Lock()
	defer s.unitMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// write runs a single mutation. Outside a unit of work it takes the unit lock
// so it cannot interleave with, or be rolled back by, a running unit.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.unitMu.Lock()
		defer s.unitMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

type snapshot struct {
	wallets       map[string]domain.Wallet
	history       map[string][]domain.BalanceHistory
	historySeq    int64
	transactions  map[string]domain.Transaction
	occurrences   map[string]string
	transfers     map[string]domain.TransferRecord
	rules         map[string]domain.RecurringRule
	reminders     map[string]domain.Reminder
	notifications []domain.Notification
	preferences   map[string]domain.NotificationPreferences
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make(map[string][]domain.BalanceHistory, len(s.history))
	for k, v := range s.history {
		history[k] = append([]domain.BalanceHistory(nil), v...)
	}
	return snapshot{
		wallets:       maps.Clone(s.wallets),
		history:       history,
		historySeq:    s.historySeq,
		transactions:  maps.Clone(s.transactions),
		occurrences:   maps.Clone(s.occurrences),
		transfers:     maps.Clone(s.transfers),
		rules:         maps.Clone(s.rules),
		reminders:     maps.Clone(s.reminders),
		notifications: append([]domain.Notification(nil), s.notifications...),
		preferences:   maps.Clone(s.preferences),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = snap.wallets
	s.history = snap.history
	s.historySeq = snap.historySeq
	s.transactions = snap.transactions
	s.occurrences = snap.occurrences
	s.transfers = snap.transfers
	s.rules = snap.rules
	s.reminders = snap.reminders
	s.notifications = snap.notifications
	s.preferences = snap.preferences
}

func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, id)
}
