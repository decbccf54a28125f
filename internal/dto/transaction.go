package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record income or an expense.
type CreateTransactionRequest struct {
	WalletID   string                 `json:"walletID" binding:"required"`
	Kind       domain.TransactionKind `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
	Amount     decimal.Decimal        `json:"amount"`
	CategoryID *string                `json:"categoryID"`
	Date       *time.Time             `json:"date"` // defaults to now
	Notes      string                 `json:"notes" binding:"max=1000"`

	// Set by the engines, never bound from a request body.
	Source       domain.TransactionSource `json:"-"`
	SourceID     *string                  `json:"-"`
	OccurrenceAt *time.Time               `json:"-"`
}

// UpdateTransactionRequest enumerates the fields a user may change.
// Pointers distinguish "not provided" from zero values.
type UpdateTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	CategoryID    *string          `json:"categoryID"`
	ClearCategory bool             `json:"clearCategory"`
	Date          *time.Time       `json:"date"`
	Notes         *string          `json:"notes" binding:"omitempty,max=1000"`
}

// ListTransactionsParams holds parameters for listing a wallet's transactions.
type ListTransactionsParams struct {
	WalletID  string  `form:"walletID" binding:"required"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// TransferRequest defines a wallet to wallet transfer.
type TransferRequest struct {
	FromWalletID string          `json:"fromWalletID" binding:"required"`
	ToWalletID   string          `json:"toWalletID" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	Description  string          `json:"description" binding:"max=500"`
	Date         *time.Time      `json:"date"`
}
