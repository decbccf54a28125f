package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// failingHistory fails every balance history append, i.e. after the
// transaction row and the balance update were written.
type failingHistory struct {
	portsrepo.BalanceHistoryRepository
}

func (failingHistory) AppendBalanceHistory(context.Context, domain.BalanceHistory) error {
	return errors.New("disk full")
}

type TransactionServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.f = newFixture(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

// Wallet CASH 100: expense 30, update to 50, delete.
func (suite *TransactionServiceTestSuite) TestCreateUpdateDelete_BalanceAndHistory() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")

	txn := f.expense(w.WalletID, "30")
	suite.True(dec("70").Equal(f.balance(w.WalletID)))
	suite.Len(f.history(w.WalletID), 2)
	suite.True(dec("70").Equal(f.history(w.WalletID)[0].Balance))

	_, err := f.svc.Transaction.UpdateTransaction(f.ctx, testUser, txn.TransactionID, dto.UpdateTransactionRequest{Amount: ptr(dec("50"))})
	suite.Require().NoError(err)
	suite.True(dec("50").Equal(f.balance(w.WalletID)))
	suite.Len(f.history(w.WalletID), 3)
	suite.True(dec("50").Equal(f.history(w.WalletID)[0].Balance))

	suite.Require().NoError(f.svc.Transaction.DeleteTransaction(f.ctx, testUser, txn.TransactionID))
	suite.True(dec("100").Equal(f.balance(w.WalletID)))
	history := f.history(w.WalletID)
	suite.Len(history, 4)
	suite.True(dec("100").Equal(history[0].Balance))
	suite.Empty(f.transactions(w.WalletID))
}

func (suite *TransactionServiceTestSuite) TestBalanceInvariant() {
	f := suite.f
	w := f.wallet(domain.WalletBank, "10.50")

	amounts := []struct {
		kind   domain.TransactionKind
		amount string
	}{
		{domain.Income, "100.25"},
		{domain.Expense, "40.10"},
		{domain.Income, "0.35"},
		{domain.Expense, "71"},
	}
	expected := dec("10.50")
	for _, a := range amounts {
		_, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: a.kind, Amount: dec(a.amount)})
		suite.Require().NoError(err)
		expected = expected.Add(domain.SignedDelta(a.kind, "", dec(a.amount)))
	}

	suite.True(expected.Equal(f.balance(w.WalletID)), "balance %s, expected %s", f.balance(w.WalletID), expected)
	suite.True(f.balance(w.WalletID).Equal(f.history(w.WalletID)[0].Balance))

	sum := dec("10.50")
	for _, txn := range f.transactions(w.WalletID) {
		sum = sum.Add(txn.SignedAmount())
	}
	suite.True(sum.Equal(f.balance(w.WalletID)))
}

func (suite *TransactionServiceTestSuite) TestOverdraft_CashRejected() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "20")

	_, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Expense, Amount: dec("20.01")})
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.True(dec("20").Equal(f.balance(w.WalletID)))
	suite.Empty(f.transactions(w.WalletID))
}

func (suite *TransactionServiceTestSuite) TestOverdraft_CreditCardGoesNegative() {
	f := suite.f
	w := f.wallet(domain.WalletCreditCard, "20")

	f.expense(w.WalletID, "50")
	suite.True(dec("-30").Equal(f.balance(w.WalletID)))
}

func (suite *TransactionServiceTestSuite) TestUpdate_OverdraftOnIncreasedExpense() {
	f := suite.f
	w := f.wallet(domain.WalletSavings, "100")
	txn := f.expense(w.WalletID, "60")

	_, err := f.svc.Transaction.UpdateTransaction(f.ctx, testUser, txn.TransactionID, dto.UpdateTransactionRequest{
		Amount: ptr(dec("120")),
		Notes:  ptr("bigger"),
	})
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.True(dec("40").Equal(f.balance(w.WalletID)))

	stored, err := f.store.FindTransactionByID(f.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.True(dec("60").Equal(stored.Amount), "the field update must roll back with the balance")
	suite.Empty(stored.Notes)
}

func (suite *TransactionServiceTestSuite) TestUpdate_DeleteIncomeCannotOverdraw() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "0")
	income, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Income, Amount: dec("50")})
	suite.Require().NoError(err)
	f.expense(w.WalletID, "40")

	err = f.svc.Transaction.DeleteTransaction(f.ctx, testUser, income.TransactionID)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.True(dec("10").Equal(f.balance(w.WalletID)))
}

func (suite *TransactionServiceTestSuite) TestOwnership() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")
	txn := f.expense(w.WalletID, "1")

	_, err := f.svc.Transaction.CreateTransaction(f.ctx, otherUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Income, Amount: dec("1")})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = f.svc.Transaction.UpdateTransaction(f.ctx, otherUser, txn.TransactionID, dto.UpdateTransactionRequest{Notes: ptr("x")})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(f.svc.Transaction.DeleteTransaction(f.ctx, otherUser, txn.TransactionID), apperrors.ErrNotFound)
	suite.ErrorIs(f.svc.Transaction.DeleteTransaction(f.ctx, testUser, "missing"), apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestInactiveWallet() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")
	f.expense(w.WalletID, "1")
	suite.Require().NoError(f.svc.Wallet.DeleteWallet(f.ctx, testUser, w.WalletID))

	_, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Income, Amount: dec("1")})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = f.svc.Balance.ApplyDelta(f.ctx, w.WalletID, dec("5"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestValidation() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")

	_, err := f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Expense, Amount: decimal.Zero})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = f.svc.Transaction.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Transfer, Amount: dec("5")})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestAtomicity_FailureAfterBalanceUpdate() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")

	provider := f.store.Provider()
	balanceSvc := services.NewBalanceService(provider.TxManager, provider.WalletRepo, failingHistory{provider.BalanceRepo})
	txnSvc := services.NewTransactionService(provider.TxManager, provider.TransactionRepo, provider.WalletRepo, balanceSvc)

	_, err := txnSvc.CreateTransaction(f.ctx, testUser, dto.CreateTransactionRequest{WalletID: w.WalletID, Kind: domain.Expense, Amount: dec("30")})
	suite.Error(err)

	suite.True(dec("100").Equal(f.balance(w.WalletID)))
	suite.Empty(f.transactions(w.WalletID))
	suite.Len(f.history(w.WalletID), 1)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_Paginates() {
	f := suite.f
	w := f.wallet(domain.WalletCash, "100")
	for i := 0; i < 3; i++ {
		f.expense(w.WalletID, "1")
		f.clock.Advance(time.Minute)
	}

	page, err := f.svc.Transaction.ListTransactions(f.ctx, testUser, dto.ListTransactionsParams{WalletID: w.WalletID, Limit: 2})
	suite.Require().NoError(err)
	suite.Len(page.Transactions, 2)
	suite.Require().NotNil(page.NextToken)

	page, err = f.svc.Transaction.ListTransactions(f.ctx, testUser, dto.ListTransactionsParams{WalletID: w.WalletID, Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Len(page.Transactions, 1)
	suite.Nil(page.NextToken)

	_, err = f.svc.Transaction.ListTransactions(f.ctx, otherUser, dto.ListTransactionsParams{WalletID: w.WalletID})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
