package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/shopspring/decimal"
)

// WalletReaderSvc defines read operations for wallets
type WalletReaderSvc interface {
	// GetWallet returns a wallet owned by userID, active or not.
	GetWallet(ctx context.Context, userID string, walletID string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, userID string, includeInactive bool) ([]domain.Wallet, error)
	ListBalanceHistory(ctx context.Context, userID string, walletID string, limit int) ([]domain.BalanceHistory, error)
}

// WalletWriterSvc defines write operations for wallets
type WalletWriterSvc interface {
	CreateWallet(ctx context.Context, userID string, req dto.CreateWalletRequest) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, userID string, walletID string, req dto.UpdateWalletRequest) (*domain.Wallet, error)

	// DeleteWallet deactivates a wallet with transaction history and removes it otherwise.
	DeleteWallet(ctx context.Context, userID string, walletID string) error
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}

// BalanceSvc is the only component allowed to change a wallet balance.
type BalanceSvc interface {
	// ApplyDelta adds a signed delta to an active wallet and appends a balance
	// history row, joining the caller's unit of work when ctx carries one.
	ApplyDelta(ctx context.Context, walletID string, delta decimal.Decimal) (decimal.Decimal, error)
}
