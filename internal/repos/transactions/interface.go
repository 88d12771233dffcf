package transactions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAlreadyLinked is returned when a transaction is attached to a second
// origin (game, bonus grant, deposit mark or settlement).
var ErrAlreadyLinked = errors.New("transaction already linked")

type BonusTag string

const (
	BonusLogin            BonusTag = "login"
	BonusRealMoneyDeposit BonusTag = "real_money_deposit"
)

func (t BonusTag) Valid() bool {
	return t == BonusLogin || t == BonusRealMoneyDeposit
}

// Transaction is an immutable signed balance change of one wallet.
type Transaction struct {
	ID        int64
	WalletID  int64
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Settlement records a bonus wallet whose balance was moved into real money.
type Settlement struct {
	ID                  int64
	BonusWalletID       int64
	RealMoneyWalletID   int64
	TransactionID       int64
	DebitTransactionID  int64
	Amount              decimal.Decimal
	WageringRequirement int
	CreatedAt           time.Time
}

type Transactions interface {
	Insert(tx *sql.Tx, walletID int64, amount decimal.Decimal) (Transaction, error)
	LinkGame(tx *sql.Tx, gameID, transactionID int64) error
	LinkBonusGrant(tx *sql.Tx, transactionID int64, tag BonusTag) error
	LinkDepositMark(tx *sql.Tx, transactionID int64) error
	InsertSettlement(tx *sql.Tx, s Settlement) (Settlement, error)

	// Wagered is the absolute sum of game-linked transactions of the user.
	Wagered(tx *sql.Tx, userID uint64) (decimal.Decimal, error)
	// ConsumedRequirement is the wagering already spent by past settlements.
	ConsumedRequirement(tx *sql.Tx, userID uint64) (decimal.Decimal, error)

	ListByWallet(ctx context.Context, walletID int64) ([]Transaction, error)
	SumByWallet(ctx context.Context, walletID int64) (decimal.Decimal, error)
	ListSettlements(ctx context.Context, userID uint64) ([]Settlement, error)
}
