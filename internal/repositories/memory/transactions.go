package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
)

func occurrenceKey(t domain.Transaction) (string, bool) {
	if t.SourceID == nil || t.OccurrenceAt == nil {
		return "", false
	}
	return fmt.Sprintf("%s|%d", *t.SourceID, t.OccurrenceAt.UnixNano()), true
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	var (
		t  domain.Transaction
		ok bool
	)
	s.read(func() { t, ok = s.transactions[transactionID] })
	if !ok {
		return nil, notFound("transaction", transactionID)
	}
	return &t, nil
}

func (s *Store) ListTransactionsByWallet(_ context.Context, walletID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}

	var all []domain.Transaction
	s.read(func() {
		for _, t := range s.transactions {
			if t.WalletID == walletID && (cursor == nil || cursor.After(t.Date, t.TransactionID)) {
				all = append(all, t)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date.Equal(all[j].Date) {
			return all[i].TransactionID > all[j].TransactionID
		}
		return all[i].Date.After(all[j].Date)
	})

	out := []domain.Transaction{}
	var next *string
	for _, t := range all {
		if limit > 0 && len(out) == limit {
			last := out[len(out)-1]
			token := pagination.EncodeCursor(last.Date, last.TransactionID)
			next = &token
			break
		}
		out = append(out, t)
	}
	return out, next, nil
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func() error {
		if _, exists := s.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		if key, ok := occurrenceKey(txn); ok {
			if _, exists := s.occurrences[key]; exists {
				return fmt.Errorf("%w: occurrence already recorded for %s", apperrors.ErrDuplicate, *txn.SourceID)
			}
			s.occurrences[key] = txn.TransactionID
		}
		s.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func() error {
		if _, ok := s.transactions[txn.TransactionID]; !ok {
			return notFound("transaction", txn.TransactionID)
		}
		s.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.write(ctx, func() error {
		t, ok := s.transactions[transactionID]
		if !ok {
			return notFound("transaction", transactionID)
		}
		if key, ok := occurrenceKey(t); ok {
			delete(s.occurrences, key)
		}
		delete(s.transactions, transactionID)
		return nil
	})
}

func (s *Store) SaveTransfer(ctx context.Context, transfer domain.TransferRecord) error {
	return s.write(ctx, func() error {
		if _, exists := s.transfers[transfer.TransferID]; exists {
			return fmt.Errorf("%w: transfer %s", apperrors.ErrDuplicate, transfer.TransferID)
		}
		s.transfers[transfer.TransferID] = transfer
		return nil
	})
}

func (s *Store) FindTransferByID(_ context.Context, transferID string) (*domain.TransferRecord, error) {
	var (
		t  domain.TransferRecord
		ok bool
	)
	s.read(func() { t, ok = s.transfers[transferID] })
	if !ok {
		return nil, notFound("transfer", transferID)
	}
	return &t, nil
}
