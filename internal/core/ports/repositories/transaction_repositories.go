package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByWallet retrieves a page of a wallet's transactions, newest first.
	// It returns the transactions and a token for the next page.
	ListTransactionsByWallet(ctx context.Context, walletID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction inserts a transaction. Scheduler-created rows with the same
	// (SourceID, OccurrenceAt) are rejected with apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransferRepository stores the logical pairing of transfer legs.
type TransferRepository interface {
	SaveTransfer(ctx context.Context, transfer domain.TransferRecord) error
	FindTransferByID(ctx context.Context, transferID string) (*domain.TransferRecord, error)
}
