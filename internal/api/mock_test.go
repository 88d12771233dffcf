package api

import (
	"context"

	"github.com/fastprodman/spinwallet/internal/services/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) OpenAccount(ctx context.Context, userID uint64) (ledger.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ledger.Wallet), args.Error(1)
}

func (m *mockLedger) Wallets(ctx context.Context, userID uint64) ([]ledger.Wallet, error) {
	args := m.Called(ctx, userID)
	ws, _ := args.Get(0).([]ledger.Wallet)

	return ws, args.Error(1)
}

func (m *mockLedger) WalletTransactions(ctx context.Context, userID uint64, walletID int64) ([]ledger.Transaction, error) {
	args := m.Called(ctx, userID, walletID)
	ts, _ := args.Get(0).([]ledger.Transaction)

	return ts, args.Error(1)
}

func (m *mockLedger) Settlements(ctx context.Context, userID uint64) ([]ledger.Settlement, error) {
	args := m.Called(ctx, userID)
	sts, _ := args.Get(0).([]ledger.Settlement)

	return sts, args.Error(1)
}

func (m *mockLedger) Audit(ctx context.Context, userID uint64) ([]ledger.WalletAudit, error) {
	args := m.Called(ctx, userID)
	as, _ := args.Get(0).([]ledger.WalletAudit)

	return as, args.Error(1)
}

func (m *mockLedger) Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (ledger.DepositResult, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(ledger.DepositResult), args.Error(1)
}

func (m *mockLedger) Login(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockLedger) PlayBet(ctx context.Context, userID uint64, outcome ledger.Outcome, amount decimal.Decimal) (ledger.BetResult, error) {
	args := m.Called(ctx, userID, outcome, amount)
	return args.Get(0).(ledger.BetResult), args.Error(1)
}

func (m *mockLedger) PlayRandom(ctx context.Context, userID uint64) (ledger.BetResult, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ledger.BetResult), args.Error(1)
}

func (m *mockLedger) GrantBonus(ctx context.Context, userID uint64, tag ledger.BonusTag, amount decimal.Decimal) (ledger.BonusGrant, error) {
	args := m.Called(ctx, userID, tag, amount)
	return args.Get(0).(ledger.BonusGrant), args.Error(1)
}

func (m *mockLedger) SettleWagering(ctx context.Context, userID uint64) ([]ledger.Settlement, error) {
	args := m.Called(ctx, userID)
	sts, _ := args.Get(0).([]ledger.Settlement)

	return sts, args.Error(1)
}

// decimalEq matches a decimal argument by value, ignoring exponent.
func decimalEq(s string) any {
	want := decimal.RequireFromString(s)

	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
