package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

const defaultHistoryLimit = 50

// walletService implements the WalletSvcFacade interface
type walletService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	walletRepo  portsrepo.WalletRepositoryFacade
	balanceRepo portsrepo.BalanceHistoryRepository
}

// NewWalletService creates a new wallet service.
func NewWalletService(txManager portsrepo.TransactionManager, walletRepo portsrepo.WalletRepositoryFacade, balanceRepo portsrepo.BalanceHistoryRepository, options ...ServiceOption) portssvc.WalletSvcFacade {
	return &walletService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
		walletRepo:  walletRepo,
		balanceRepo: balanceRepo,
	}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

func (s *walletService) CreateWallet(ctx context.Context, userID string, req dto.CreateWalletRequest) (*domain.Wallet, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	walletType := domain.WalletType(req.WalletType)
	if req.OpeningBalance.IsNegative() && walletType != domain.WalletCreditCard {
		return nil, fmt.Errorf("%w: opening balance of a %s wallet cannot be negative", apperrors.ErrValidation, walletType)
	}

	now := s.Now()
	wallet := domain.Wallet{
		WalletID:     uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		WalletType:   walletType,
		CurrencyCode: req.CurrencyCode,
		Balance:      req.OpeningBalance,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, now),
	}

	// The opening balance is the first history row so the trail always ends at the current balance.
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
			return err
		}
		return s.balanceRepo.AppendBalanceHistory(ctx, domain.BalanceHistory{
			EntryID:    uuid.NewString(),
			WalletID:   wallet.WalletID,
			Balance:    wallet.Balance,
			Delta:      wallet.Balance,
			RecordedAt: now,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create wallet", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Wallet created successfully",
		slog.String("wallet_id", wallet.WalletID),
		slog.String("wallet_type", string(wallet.WalletType)))
	return &wallet, nil
}

func (s *walletService) GetWallet(ctx context.Context, userID string, walletID string) (*domain.Wallet, error) {
	return findOwnedWallet(ctx, s.walletRepo, userID, walletID)
}

func (s *walletService) ListWallets(ctx context.Context, userID string, includeInactive bool) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListWalletsByUser(ctx, userID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list wallets", slog.String("user_id", userID))
		return nil, err
	}
	return wallets, nil
}

func (s *walletService) UpdateWallet(ctx context.Context, userID string, walletID string, req dto.UpdateWalletRequest) (*domain.Wallet, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	wallet, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, walletID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		wallet.Name = *req.Name
	}
	wallet.Touch(userID, s.Now())

	if err := s.walletRepo.UpdateWalletDetails(ctx, *wallet); err != nil {
		s.LogError(ctx, err, "Failed to update wallet", slog.String("wallet_id", walletID))
		return nil, err
	}
	return wallet, nil
}

func (s *walletService) DeleteWallet(ctx context.Context, userID string, walletID string) error {
	wallet, err := findOwnedWallet(ctx, s.walletRepo, userID, walletID)
	if err != nil {
		return err
	}

	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		hasHistory, err := s.walletRepo.WalletHasTransactions(ctx, walletID)
		if err != nil {
			return err
		}
		if !hasHistory {
			s.LogInfo(ctx, "Deleting wallet without transactions", slog.String("wallet_id", walletID))
			return s.walletRepo.DeleteWallet(ctx, walletID)
		}
		if !wallet.IsActive {
			return nil
		}
		wallet.IsActive = false
		wallet.Touch(userID, s.Now())
		s.LogInfo(ctx, "Deactivating wallet with transaction history", slog.String("wallet_id", walletID))
		return s.walletRepo.UpdateWalletDetails(ctx, *wallet)
	})
}

func (s *walletService) ListBalanceHistory(ctx context.Context, userID string, walletID string, limit int) ([]domain.BalanceHistory, error) {
	if _, err := findOwnedWallet(ctx, s.walletRepo, userID, walletID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.balanceRepo.ListBalanceHistory(ctx, walletID, limit)
}
