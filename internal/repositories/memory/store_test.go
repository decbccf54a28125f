package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seedWallet(t *testing.T, s *Store, id string, balance int64) {
	t.Helper()
	require.NoError(t, s.SaveWallet(context.Background(), domain.Wallet{
		WalletID:    id,
		UserID:      "user-1",
		Name:        id,
		WalletType:  domain.WalletCash,
		Balance:     decimal.NewFromInt(balance),
		IsActive:    true,
		AuditFields: domain.NewAuditFields("user-1", testNow),
	}))
}

func TestWithinTx_RollbackRestoresEverything(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, "w1", 100)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{TransactionID: "t1", WalletID: "w1", Amount: decimal.NewFromInt(30), Kind: domain.Expense}))
		require.NoError(t, s.SetWalletBalance(ctx, "w1", decimal.NewFromInt(70), "user-1", testNow))
		require.NoError(t, s.AppendBalanceHistory(ctx, domain.BalanceHistory{EntryID: "h1", WalletID: "w1", Balance: decimal.NewFromInt(70)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	w, err := s.FindWalletByID(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(w.Balance))

	_, err = s.FindTransactionByID(ctx, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	history, err := s.ListBalanceHistory(ctx, "w1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, "w1", 100)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		inner := s.WithinTx(ctx, func(ctx context.Context) error {
			return s.SetWalletBalance(ctx, "w1", decimal.NewFromInt(1), "user-1", testNow)
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	w, err := s.FindWalletByID(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(w.Balance), "inner write must roll back with the outer unit")
}

func TestSaveTransaction_DuplicateOccurrence(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	source := "rule-1"
	occurrence := testNow

	first := domain.Transaction{TransactionID: "t1", WalletID: "w1", SourceID: &source, OccurrenceAt: &occurrence}
	second := first
	second.TransactionID = "t2"

	require.NoError(t, s.SaveTransaction(ctx, first))
	assert.ErrorIs(t, s.SaveTransaction(ctx, second), apperrors.ErrDuplicate)

	require.NoError(t, s.DeleteTransaction(ctx, "t1"))
	assert.NoError(t, s.SaveTransaction(ctx, second))
}

func TestBalanceHistory_SeqIsCommitOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWallet(t, s, "w1", 0)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.AppendBalanceHistory(ctx, domain.BalanceHistory{
			WalletID:   "w1",
			Balance:    decimal.NewFromInt(int64(i)),
			RecordedAt: testNow, // identical timestamps must not matter
		}))
	}

	history, err := s.ListBalanceHistory(ctx, "w1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(3), history[0].Seq)
	assert.Equal(t, int64(2), history[1].Seq)
}

func TestListTransactionsByWallet_Pages(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{
			TransactionID: id,
			WalletID:      "w1",
			Date:          testNow.Add(time.Duration(i) * time.Hour),
		}))
	}

	page1, next, err := s.ListTransactionsByWallet(ctx, "w1", 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"e", "d"}, ids(page1))

	page2, next, err := s.ListTransactionsByWallet(ctx, "w1", 2, next)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"c", "b"}, ids(page2))

	page3, next, err := s.ListTransactionsByWallet(ctx, "w1", 2, next)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"a"}, ids(page3))
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	later := testNow.Add(time.Hour)

	require.NoError(t, s.SaveReminder(ctx, domain.Reminder{ReminderID: "past", DueDate: testNow.Add(-time.Hour), Status: domain.ReminderPending, IsActive: true}))
	require.NoError(t, s.SaveReminder(ctx, domain.Reminder{ReminderID: "snoozed", DueDate: testNow.Add(-time.Hour), Status: domain.ReminderPending, IsActive: true, SnoozeUntil: &later}))
	require.NoError(t, s.SaveReminder(ctx, domain.Reminder{ReminderID: "future", DueDate: later, Status: domain.ReminderPending, IsActive: true}))

	n, err := s.MarkOverdue(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	r, err := s.FindReminderByID(ctx, "past")
	require.NoError(t, err)
	assert.Equal(t, domain.ReminderOverdue, r.Status)

	r, err = s.FindReminderByID(ctx, "snoozed")
	require.NoError(t, err)
	assert.Equal(t, domain.ReminderPending, r.Status)
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}
