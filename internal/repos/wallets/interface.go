package wallets

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrRealMoneyWalletExists = errors.New("real money wallet already exists")

	// ErrInvalidAmount is returned when a balance would leave the column's
	// NUMERIC(12,2) range.
	ErrInvalidAmount = errors.New("invalid amount")
)

type Kind string

const (
	KindRealMoney Kind = "real_money"
	KindBonus     Kind = "bonus"
)

// Wallet is a balance holder owned by one user. Kind and WageringRequirement
// never change after creation.
type Wallet struct {
	ID                  int64
	UserID              uint64
	Kind                Kind
	Balance             decimal.Decimal
	WageringRequirement int
	CreatedAt           time.Time
}

func (w Wallet) IsBonus() bool {
	return w.Kind == KindBonus
}

type Wallets interface {
	Create(tx *sql.Tx, userID uint64, kind Kind, wageringRequirement int) (Wallet, error)
	Get(tx *sql.Tx, walletID int64) (Wallet, error)
	RealMoney(tx *sql.Tx, userID uint64) (Wallet, error)
	// ListForUpdate returns every wallet of the user ordered by id.
	ListForUpdate(tx *sql.Tx, userID uint64) ([]Wallet, error)
	// SettlementCandidates returns bonus wallets with a positive balance,
	// smallest balance first, ties by id.
	SettlementCandidates(tx *sql.Tx, userID uint64) ([]Wallet, error)
	ListByUser(ctx context.Context, userID uint64) ([]Wallet, error)
	IncreaseBalance(tx *sql.Tx, walletID int64, amount decimal.Decimal) error
	DecreaseBalance(tx *sql.Tx, walletID int64, amount decimal.Decimal) error
}
