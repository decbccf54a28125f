package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletReader defines read operations for wallet data
type WalletReader interface {
	// FindWalletByID retrieves a wallet regardless of owner or active flag.
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)

	// ListWalletsByUser retrieves the wallets owned by a user.
	ListWalletsByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.Wallet, error)

	// WalletHasTransactions reports whether any transaction references the wallet.
	WalletHasTransactions(ctx context.Context, walletID string) (bool, error)
}

// WalletWriter defines write operations for wallet data
type WalletWriter interface {
	SaveWallet(ctx context.Context, wallet domain.Wallet) error

	// UpdateWalletDetails persists non-balance fields (name, active flag, audit).
	UpdateWalletDetails(ctx context.Context, wallet domain.Wallet) error

	DeleteWallet(ctx context.Context, walletID string) error
}

// WalletBalanceSupport is the narrow write path used only by the balance service.
// Both methods require a context carrying a transaction.
type WalletBalanceSupport interface {
	// FindWalletByIDForUpdate reads the wallet and locks it until the transaction ends.
	FindWalletByIDForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error)

	// SetWalletBalance stores the new balance of a locked wallet.
	SetWalletBalance(ctx context.Context, walletID string, balance decimal.Decimal, userID string, now time.Time) error
}

// WalletRepositoryFacade combines all wallet-related repository interfaces
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
	WalletBalanceSupport
}

// BalanceHistoryRepository is the append-only audit trail of balances.
type BalanceHistoryRepository interface {
	AppendBalanceHistory(ctx context.Context, entry domain.BalanceHistory) error

	// ListBalanceHistory returns the newest entries first.
	ListBalanceHistory(ctx context.Context, walletID string, limit int) ([]domain.BalanceHistory, error)
}
