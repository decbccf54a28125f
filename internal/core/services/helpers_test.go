package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/platform/clock"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
)

const (
	testUser  = "user-1"
	otherUser = "user-2"
)

var startTime = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	clock *clock.Fake
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFake(startTime)
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		clock: clk,
		store: store,
		svc:   services.NewServiceContainer(nil, store.Provider(), nil, services.WithClock(clk)),
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (f *fixture) wallet(walletType domain.WalletType, opening string) *domain.Wallet {
	f.t.Helper()
	w, err := f.svc.Wallet.CreateWallet(f.ctx, testUser, dto.CreateWalletRequest{
		Name:           string(walletType) + " wallet",
		WalletType:     walletType,
		CurrencyCode:   "USD",
		OpeningBalance: dec(opening),
	})
	require.NoError(f.t, err)
	return w
}

func (f *fixture) balance(walletID string) decimal.Decimal {
	f.t.Helper()
	w, err := f.store.FindWalletByID(f.ctx, walletID)
	require.NoError(f.t, err)
	return w.Balance
}

func (f *fixture) history(walletID string) []domain.BalanceHistory {
	f.t.Helper()
	h, err := f.store.ListBalanceHistory(f.ctx, walletID, 0)
	require.NoError(f.t, err)
	return h
}

func (f *fixture) transactions(walletID string) []domain.Transaction {
	f.t.Helper()
	txns, _, err := f.store.ListTransactionsByWallet(f.ctx, walletID, 0, nil)
	require.NoError(f.t, err)
	return txns
}

func (f *fixture) notifications(kind domain.NotificationKind) []domain.Notification {
	f.t.Helper()
	all, err := f.store.ListNotifications(f.ctx, testUser, false, 0)
	require.NoError(f.t, err)
	var out []domain.Notification
	for _, n := range all {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (f *fixture) expense(walletID, amount string) *domain.Transaction {
	f.t.Helper()
	txn, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{
		WalletID: walletID,
		Kind:     domain.Expense,
		Amount:   dec(amount),
	})
	require.NoError(f.t, err)
	return txn
}

func ptr[T any](v T) *T { return &v }
