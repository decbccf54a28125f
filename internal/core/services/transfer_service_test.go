package services_test

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
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// failingCredit refuses to store the balance of one wallet, which happens
// after the transfer record, both legs and the source debit were written.
type failingCredit struct {
	portsrepo.WalletRepositoryFacade
	walletID string
}

func (f failingCredit) SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal, userID string, now time.Time) error {
	if walletID == f.walletID {
		return errors.New("connection reset")
	}
	return f.WalletRepositoryFacade.SetWalletBalance(ctx, walletID, balance, userID, now)
}

func TestTransfer_MovesAmountAndBurnsFee(t *testing.T) {
	f := newFixture(t)
	from := f.wallet(domain.WalletBank, "500")
	to := f.wallet(domain.WalletSavings, "20")

	transfer, err := f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{
		FromWalletID: from.WalletID,
		ToWalletID:   to.WalletID,
		Amount:       dec("100"),
		Fee:          dec("2.50"),
		Description:  "to savings",
	})
	require.NoError(t, err)

	assert.True(t, dec("397.50").Equal(f.balance(from.WalletID)))
	assert.True(t, dec("120").Equal(f.balance(to.WalletID)))

	out := f.transactions(from.WalletID)
	in := f.transactions(to.WalletID)
	require.Len(t, out, 1)
	require.Len(t, in, 1)
	assert.Equal(t, domain.Transfer, out[0].Kind)
	assert.Equal(t, domain.DirectionOut, out[0].Direction)
	assert.Equal(t, domain.DirectionIn, in[0].Direction)
	assert.Equal(t, transfer.OutgoingTransactionID, out[0].TransactionID)
	assert.Equal(t, transfer.IncomingTransactionID, in[0].TransactionID)
	assert.True(t, dec("397.50").Equal(dec("500").Add(out[0].SignedAmount())), "signed legs sum to the balances")

	got, err := f.svc.Transfer.GetTransfer(f.ctx, testUser, transfer.TransferID)
	require.NoError(t, err)
	assert.True(t, dec("2.50").Equal(got.Fee))

	_, err = f.svc.Transfer.GetTransfer(f.ctx, otherUser, transfer.TransferID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransfer_LegsAreImmutable(t *testing.T) {
	f := newFixture(t)
	from := f.wallet(domain.WalletBank, "50")
	to := f.wallet(domain.WalletCash, "0")

	transfer, err := f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: to.WalletID, Amount: dec("10")})
	require.NoError(t, err)

	_, err = f.svc.Transaction.UpdateTransaction(f.ctx, testUser, transfer.OutgoingTransactionID, dto.UpdateTransactionRequest{Notes: ptr("edited")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)

	err = f.svc.Transaction.DeleteTransaction(f.ctx, testUser, transfer.IncomingTransactionID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)
	assert.True(t, dec("10").Equal(f.balance(to.WalletID)))
}

func TestTransfer_Preconditions(t *testing.T) {
	f := newFixture(t)
	from := f.wallet(domain.WalletCash, "100")
	to := f.wallet(domain.WalletCash, "0")
	card := f.wallet(domain.WalletCreditCard, "0")

	_, err := f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: from.WalletID, Amount: dec("1")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)

	_, err = f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: to.WalletID, Amount: dec("99"), Fee: dec("1.01")})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance, "the fee counts against the source balance")

	_, err = f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: to.WalletID, Amount: dec("1"), Fee: dec("-1")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Transfer.Transfer(f.ctx, otherUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: to.WalletID, Amount: dec("1")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Transfer.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: card.WalletID, ToWalletID: to.WalletID, Amount: dec("300")})
	assert.NoError(t, err, "credit cards may go negative")
	assert.True(t, dec("-300").Equal(f.balance(card.WalletID)))
}

func TestTransfer_InjectedFailureLeavesNothing(t *testing.T) {
	f := newFixture(t)
	from := f.wallet(domain.WalletBank, "200")
	to := f.wallet(domain.WalletCash, "5")

	provider := f.store.Provider()
	wallets := failingCredit{WalletRepositoryFacade: provider.WalletRepo, walletID: to.WalletID}
	balanceSvc := services.NewBalanceService(provider.TxManager, wallets, provider.BalanceRepo)
	transferSvc := services.NewTransferService(provider.TxManager, provider.TransferRepo, provider.TransactionRepo, wallets, balanceSvc)

	_, err := transferSvc.Transfer(f.ctx, testUser, dto.TransferRequest{FromWalletID: from.WalletID, ToWalletID: to.WalletID, Amount: dec("50"), Fee: dec("1")})
	require.Error(t, err)

	assert.True(t, dec("200").Equal(f.balance(from.WalletID)))
	assert.True(t, dec("5").Equal(f.balance(to.WalletID)))
	assert.Empty(t, f.transactions(from.WalletID))
	assert.Empty(t, f.transactions(to.WalletID))
	assert.Len(t, f.history(from.WalletID), 1)
}
