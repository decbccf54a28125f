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
)

// balanceService is the single write path for wallet balances.
type balanceService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	walletRepo  portsrepo.WalletRepositoryFacade
	balanceRepo portsrepo.BalanceHistoryRepository
}

// NewBalanceService creates the wallet balance service.
func NewBalanceService(txManager portsrepo.TransactionManager, walletRepo portsrepo.WalletRepositoryFacade, balanceRepo portsrepo.BalanceHistoryRepository, options ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
		walletRepo:  walletRepo,
		balanceRepo: balanceRepo,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) ApplyDelta(ctx context.Context, walletID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		wallet, err := s.walletRepo.FindWalletByIDForUpdate(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.IsActive {
			return fmt.Errorf("%w: wallet %s is inactive", apperrors.ErrNotFound, walletID)
		}
		if !wallet.CanApply(delta) {
			return fmt.Errorf("%w: wallet %s has %s, debit of %s refused",
				apperrors.ErrInsufficientBalance, walletID, wallet.Balance.String(), delta.Neg().String())
		}

		now := s.Now()
		newBalance = wallet.Balance.Add(delta)
		if err := s.walletRepo.SetWalletBalance(ctx, walletID, newBalance, wallet.UserID, now); err != nil {
			return err
		}
		return s.balanceRepo.AppendBalanceHistory(ctx, domain.BalanceHistory{
			EntryID:    uuid.NewString(),
			WalletID:   walletID,
			Balance:    newBalance,
			Delta:      delta,
			RecordedAt: now,
		})
	})
	if err != nil {
		s.LogDebug(ctx, "Balance delta not applied", slog.String("wallet_id", walletID), slog.String("delta", delta.String()), slog.String("error", err.Error()))
		return decimal.Zero, err
	}
	return newBalance, nil
}
