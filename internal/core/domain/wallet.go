package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletType classifies a wallet. Only credit cards may carry a negative balance.
type WalletType string

const (
	WalletBank       WalletType = "BANK"
	WalletCash       WalletType = "CASH"
	WalletSavings    WalletType = "SAVINGS"
	WalletCreditCard WalletType = "CREDIT_CARD"
	WalletInvestment WalletType = "INVESTMENT"
	WalletOther      WalletType = "OTHER"
)

// IsValid reports whether t is one of the known wallet types.
func (t WalletType) IsValid() bool {
	switch t {
	case WalletBank, WalletCash, WalletSavings, WalletCreditCard, WalletInvestment, WalletOther:
		return true
	}
	return false
}

// Wallet is a user-owned account holding a balance.
type Wallet struct {
	WalletID     string          `json:"walletID"`
	UserID       string          `json:"userID"`
	Name         string          `json:"name"`
	WalletType   WalletType      `json:"walletType"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// AllowsNegativeBalance reports whether the overdraft rule is lifted for this wallet.
func (w Wallet) AllowsNegativeBalance() bool {
	return w.WalletType == WalletCreditCard
}

// CanApply reports whether adding delta keeps the wallet within the overdraft rule.
func (w Wallet) CanApply(delta decimal.Decimal) bool {
	if w.AllowsNegativeBalance() || !delta.IsNegative() {
		return true
	}
	return !w.Balance.Add(delta).IsNegative()
}

// BalanceHistory is one append-only audit row written after every balance change.
type BalanceHistory struct {
	EntryID    string          `json:"entryID"`
	WalletID   string          `json:"walletID"`
	Balance    decimal.Decimal `json:"balance"` // resulting balance
	Delta      decimal.Decimal `json:"delta"`
	RecordedAt time.Time       `json:"recordedAt"`
	Seq        int64           `json:"seq"` // commit order within the store
}
