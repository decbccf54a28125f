package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

const (
	defaultTransactionPageSize = 20
	maxTransactionPageSize     = 100
)

// transactionService is the Transaction Ledger: single-wallet income and expenses.
type transactionService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	transactionRepo portsrepo.TransactionRepositoryFacade
	walletRepo      portsrepo.WalletReader
	balanceSvc      portssvc.BalanceSvc
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txManager portsrepo.TransactionManager,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	walletRepo portsrepo.WalletReader,
	balanceSvc portssvc.BalanceSvc,
	options ...ServiceOption,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:     newBaseService(options...),
		txManager:       txManager,
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		balanceSvc:      balanceSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}

	wallet, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, req.WalletID)
	if err != nil {
		return nil, err
	}

	delta := domain.SignedDelta(req.Kind, "", req.Amount)
	// Reject before any side effect; ApplyDelta re-checks under the row lock.
	if !wallet.CanApply(delta) {
		return nil, fmt.Errorf("%w: wallet %s has %s, expense of %s refused",
			apperrors.ErrInsufficientBalance, wallet.WalletID, wallet.Balance.String(), req.Amount.String())
	}

	now := s.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		WalletID:      wallet.WalletID,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Kind:          req.Kind,
		Date:          date,
		Notes:         req.Notes,
		Source:        source,
		SourceID:      req.SourceID,
		OccurrenceAt:  req.OccurrenceAt,
		AuditFields:   domain.NewAuditFields(userID, now),
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}
		_, err := s.balanceSvc.ApplyDelta(ctx, txn.WalletID, delta)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("wallet_id", txn.WalletID),
			slog.String("kind", string(txn.Kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("wallet_id", txn.WalletID),
		slog.String("source", string(txn.Source)))
	return &txn, nil
}

// findOwnedTransaction hides transactions of other users behind ErrNotFound.
func (s *transactionService) findOwnedTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	return s.findOwnedTransaction(ctx, userID, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	if _, err := findOwnedWallet(ctx, s.walletRepo, userID, params.WalletID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	} else if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	txns, next, err := s.transactionRepo.ListTransactionsByWallet(ctx, params.WalletID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("wallet_id", params.WalletID))
		return nil, err
	}
	return &dto.ListTransactionsResponse{Transactions: txns, NextToken: next}, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := requirePositive("amount", *req.Amount); err != nil {
			return nil, err
		}
	}

	var updated domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.findOwnedTransaction(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if !txn.Kind.IsUserEditable() {
			return fmt.Errorf("%w: transfer legs cannot be modified", apperrors.ErrInvalidOperation)
		}

		delta := decimal.Zero
		if req.Amount != nil && !req.Amount.Equal(txn.Amount) {
			oldEffect := txn.SignedAmount()
			txn.Amount = *req.Amount
			delta = txn.SignedAmount().Sub(oldEffect)
		}
		if req.ClearCategory {
			txn.CategoryID = nil
		} else if req.CategoryID != nil {
			txn.CategoryID = req.CategoryID
		}
		if req.Date != nil {
			txn.Date = *req.Date
		}
		if req.Notes != nil {
			txn.Notes = *req.Notes
		}
		txn.Touch(userID, s.Now())

		if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}
		if !delta.IsZero() {
			// ApplyDelta enforces the overdraft rule on the correction.
			if _, err := s.balanceSvc.ApplyDelta(ctx, txn.WalletID, delta); err != nil {
				return err
			}
		}
		updated = *txn
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated successfully", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.findOwnedTransaction(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if !txn.Kind.IsUserEditable() {
			return fmt.Errorf("%w: transfer legs cannot be deleted", apperrors.ErrInvalidOperation)
		}
		if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}
		_, err = s.balanceSvc.ApplyDelta(ctx, txn.WalletID, txn.SignedAmount().Neg())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted successfully", slog.String("transaction_id", transactionID))
	return nil
}
