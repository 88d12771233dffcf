package ledger

import (
	"github.com/fastprodman/spinwallet/internal/repos/games"
	"github.com/fastprodman/spinwallet/internal/repos/transactions"
	"github.com/fastprodman/spinwallet/internal/repos/wallets"
	"github.com/shopspring/decimal"
)

type (
	Wallet      = wallets.Wallet
	Kind        = wallets.Kind
	Transaction = transactions.Transaction
	Settlement  = transactions.Settlement
	BonusTag    = transactions.BonusTag
	Game        = games.Game
	Outcome     = games.Outcome
)

const (
	KindRealMoney = wallets.KindRealMoney
	KindBonus     = wallets.KindBonus

	BonusLogin            = transactions.BonusLogin
	BonusRealMoneyDeposit = transactions.BonusRealMoneyDeposit

	OutcomeWon  = games.OutcomeWon
	OutcomeLost = games.OutcomeLost
)

// BonusGrant is a freshly created bonus wallet and the transaction funding it.
type BonusGrant struct {
	Tag         BonusTag
	Wallet      Wallet
	Transaction Transaction
}

type DepositResult struct {
	Transaction Transaction
	// Bonus is set when the deposit exceeded the bonus threshold.
	Bonus *BonusGrant
}

type BetResult struct {
	Outcome     Outcome
	Game        Game
	Transaction Transaction
}

// WalletAudit compares a wallet's stored balance with the sum of its ledger.
type WalletAudit struct {
	Wallet    Wallet
	LedgerSum decimal.Decimal
}

func (a WalletAudit) Consistent() bool {
	return a.Wallet.Balance.Equal(a.LedgerSum)
}
