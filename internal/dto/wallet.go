package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWalletRequest defines the data needed to create a new wallet.
type CreateWalletRequest struct {
	Name           string            `json:"name" binding:"required,max=100"`
	WalletType     domain.WalletType `json:"walletType" binding:"required,oneof=BANK CASH SAVINGS CREDIT_CARD INVESTMENT OTHER"`
	CurrencyCode   string            `json:"currencyCode" binding:"required,len=3"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
}

// UpdateWalletRequest defines the data allowed for updating a wallet.
// The balance is deliberately absent: it only moves through ledger operations.
type UpdateWalletRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// WalletResponse defines the data returned for a wallet.
type WalletResponse struct {
	WalletID      string            `json:"walletID"`
	Name          string            `json:"name"`
	WalletType    domain.WalletType `json:"walletType"`
	CurrencyCode  string            `json:"currencyCode"`
	Balance       decimal.Decimal   `json:"balance"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
}

// ToWalletResponse converts a domain.Wallet to WalletResponse DTO
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:      w.WalletID,
		Name:          w.Name,
		WalletType:    w.WalletType,
		CurrencyCode:  w.CurrencyCode,
		Balance:       w.Balance,
		IsActive:      w.IsActive,
		CreatedAt:     w.CreatedAt,
		LastUpdatedAt: w.LastUpdatedAt,
	}
}

// ToWalletResponses converts a slice of wallets.
func ToWalletResponses(ws []domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, len(ws))
	for i := range ws {
		out[i] = ToWalletResponse(&ws[i])
	}
	return out
}
