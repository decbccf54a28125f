package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

func (s *Store) FindWalletByID(_ context.Context, walletID string) (*domain.Wallet, error) {
	var (
		w  domain.Wallet
		ok bool
	)
	s.read(func() { w, ok = s.wallets[walletID] })
	if !ok {
		return nil, notFound("wallet", walletID)
	}
	return &w, nil
}

// FindWalletByIDForUpdate needs no extra locking: the unit lock already serializes writers.
func (s *Store) FindWalletByIDForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error) {
	return s.FindWalletByID(ctx, walletID)
}

func (s *Store) ListWalletsByUser(_ context.Context, userID string, includeInactive bool) ([]domain.Wallet, error) {
	out := []domain.Wallet{}
	s.read(func() {
		for _, w := range s.wallets {
			if w.UserID == userID && (includeInactive || w.IsActive) {
				out = append(out, w)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].WalletID < out[j].WalletID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) WalletHasTransactions(_ context.Context, walletID string) (bool, error) {
	found := false
	s.read(func() {
		for _, t := range s.transactions {
			if t.WalletID == walletID {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (s *Store) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	return s.write(ctx, func() error {
		if _, exists := s.wallets[wallet.WalletID]; exists {
			return fmt.Errorf("%w: wallet %s", apperrors.ErrDuplicate, wallet.WalletID)
		}
		s.wallets[wallet.WalletID] = wallet
		return nil
	})
}

func (s *Store) UpdateWalletDetails(ctx context.Context, wallet domain.Wallet) error {
	return s.write(ctx, func() error {
		current, ok := s.wallets[wallet.WalletID]
		if !ok {
			return notFound("wallet", wallet.WalletID)
		}
		// The balance column is owned by SetWalletBalance.
		wallet.Balance = current.Balance
		wallet.AuditFields.CreatedAt = current.CreatedAt
		wallet.AuditFields.CreatedBy = current.CreatedBy
		s.wallets[wallet.WalletID] = wallet
		return nil
	})
}

// DeleteWallet mirrors the Postgres foreign keys: rules on the wallet are
// removed and reminders are detached from it.
func (s *Store) DeleteWallet(ctx context.Context, walletID string) error {
	return s.write(ctx, func() error {
		if _, ok := s.wallets[walletID]; !ok {
			return notFound("wallet", walletID)
		}
		delete(s.wallets, walletID)
		delete(s.history, walletID)
		for id, rule := range s.rules {
			if rule.WalletID == walletID {
				delete(s.rules, id)
			}
		}
		for id, reminder := range s.reminders {
			if reminder.WalletID != nil && *reminder.WalletID == walletID {
				reminder.WalletID = nil
				reminder.AutoCreateTransaction = false
				s.reminders[id] = reminder
			}
		}
		return nil
	})
}

func (s *Store) SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal, userID string, now time.Time) error {
	return s.write(ctx, func() error {
		w, ok := s.wallets[walletID]
		if !ok {
			return notFound("wallet", walletID)
		}
		w.Balance = balance
		w.Touch(userID, now)
		s.wallets[walletID] = w
		return nil
	})
}

func (s *Store) AppendBalanceHistory(ctx context.Context, entry domain.BalanceHistory) error {
	return s.write(ctx, func() error {
		if _, ok := s.wallets[entry.WalletID]; !ok {
			return notFound("wallet", entry.WalletID)
		}
		s.historySeq++
		entry.Seq = s.historySeq
		s.history[entry.WalletID] = append(s.history[entry.WalletID], entry)
		return nil
	})
}

func (s *Store) ListBalanceHistory(_ context.Context, walletID string, limit int) ([]domain.BalanceHistory, error) {
	out := []domain.BalanceHistory{}
	s.read(func() {
		entries := s.history[walletID]
		for i := len(entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			out = append(out, entries[i])
		}
	})
	return out, nil
}
