package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the economic kind of a ledger transaction.
type TransactionKind string

const (
	Income   TransactionKind = "INCOME"
	Expense  TransactionKind = "EXPENSE"
	Transfer TransactionKind = "TRANSFER"
)

// IsUserEditable reports whether transactions of this kind may be created, updated
// or deleted directly. Transfer legs only exist as part of a TransferRecord.
func (k TransactionKind) IsUserEditable() bool {
	return k == Income || k == Expense
}

// TransferDirection tells which side of a transfer a TRANSFER leg is.
type TransferDirection string

const (
	DirectionOut TransferDirection = "OUT"
	DirectionIn  TransferDirection = "IN"
)

// TransactionSource records what created a transaction.
type TransactionSource string

const (
	SourceManual    TransactionSource = "MANUAL"
	SourceRecurring TransactionSource = "RECURRING"
	SourceReminder  TransactionSource = "REMINDER"
	SourceTransfer  TransactionSource = "TRANSFER"
)

// Transaction is a single-wallet money movement.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	UserID        string            `json:"userID"`
	WalletID      string            `json:"walletID"`
	CategoryID    *string           `json:"categoryID,omitempty"`
	Amount        decimal.Decimal   `json:"amount"` // always positive
	Kind          TransactionKind   `json:"kind"`
	Direction     TransferDirection `json:"direction,omitempty"`
	TransferID    *string           `json:"transferID,omitempty"`
	Date          time.Time         `json:"date"`
	Notes         string            `json:"notes"`
	Source        TransactionSource `json:"source"`
	SourceID      *string           `json:"sourceID,omitempty"`
	OccurrenceAt  *time.Time        `json:"occurrenceAt,omitempty"`
	AuditFields
}

// SignedAmount is the effect this transaction has on its wallet balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	return SignedDelta(t.Kind, t.Direction, t.Amount)
}

// SignedDelta computes the balance effect of an amount for a kind/direction pair.
func SignedDelta(kind TransactionKind, direction TransferDirection, amount decimal.Decimal) decimal.Decimal {
	switch kind {
	case Expense:
		return amount.Neg()
	case Transfer:
		if direction == DirectionOut {
			return amount.Neg()
		}
	}
	return amount
}

// TransferRecord pairs the outgoing and incoming legs of a wallet-to-wallet move.
// The fee is debited from the source on top of the amount and credited nowhere.
type TransferRecord struct {
	TransferID            string          `json:"transferID"`
	UserID                string          `json:"userID"`
	FromWalletID          string          `json:"fromWalletID"`
	ToWalletID            string          `json:"toWalletID"`
	Amount                decimal.Decimal `json:"amount"`
	Fee                   decimal.Decimal `json:"fee"`
	Description           string          `json:"description"`
	OutgoingTransactionID string          `json:"outgoingTransactionID"`
	IncomingTransactionID string          `json:"incomingTransactionID"`
	Date                  time.Time       `json:"date"`
	AuditFields
}
