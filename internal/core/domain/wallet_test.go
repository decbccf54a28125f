package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWalletCanApply(t *testing.T) {
	cash := Wallet{WalletType: WalletCash, Balance: decimal.NewFromInt(10)}
	assert.True(t, cash.CanApply(decimal.NewFromInt(-10)))
	assert.False(t, cash.CanApply(decimal.RequireFromString("-10.01")))
	assert.True(t, cash.CanApply(decimal.NewFromInt(5)))

	card := Wallet{WalletType: WalletCreditCard}
	assert.True(t, card.CanApply(decimal.NewFromInt(-500)))
}

func TestSignedDelta(t *testing.T) {
	amt := decimal.NewFromInt(7)
	assert.True(t, SignedDelta(Income, "", amt).Equal(amt))
	assert.True(t, SignedDelta(Expense, "", amt).Equal(amt.Neg()))
	assert.True(t, SignedDelta(Transfer, DirectionOut, amt).Equal(amt.Neg()))
	assert.True(t, SignedDelta(Transfer, DirectionIn, amt).Equal(amt))
}
