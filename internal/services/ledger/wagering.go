package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/transactions"
	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	"github.com/shopspring/decimal"
)

// Fallback decides how a missing wagering counter is seeded.
type Fallback string

const (
	// FallbackRecompute rebuilds the counter from game transactions minus the
	// requirement already consumed by settlements. Only PlayBet accrues the
	// live counter, but every game-linked transaction counts here, so games
	// written by direct Debit or CreditWin calls make the rebuilt value
	// larger than the one it replaces.
	FallbackRecompute Fallback = "recompute"
	FallbackZero      Fallback = "zero"
)

func ParseFallback(name string) (Fallback, error) {
	switch f := Fallback(name); f {
	case FallbackRecompute, FallbackZero:
		return f, nil
	default:
		return "", fmt.Errorf("unknown wagering fallback %q", name)
	}
}

// MoneySpent is the per-user amount wagered and not yet consumed by settlements.
type MoneySpent struct {
	counter wagering.Counter
	seed    func(tx *sql.Tx, userID uint64) (decimal.Decimal, error)
}

func newMoneySpent(counter wagering.Counter, fallback Fallback, txns transactions.Transactions) *MoneySpent {
	m := &MoneySpent{counter: counter}

	switch fallback {
	case FallbackRecompute:
		m.seed = func(tx *sql.Tx, userID uint64) (decimal.Decimal, error) {
			wagered, err := txns.Wagered(tx, userID)
			if err != nil {
				return decimal.Zero, err
			}

			consumed, err := txns.ConsumedRequirement(tx, userID)
			if err != nil {
				return decimal.Zero, err
			}

			return decimal.Max(wagered.Sub(consumed), decimal.Zero), nil
		}
	default:
		m.seed = func(*sql.Tx, uint64) (decimal.Decimal, error) {
			return decimal.Zero, nil
		}
	}

	return m
}

// Total returns the stored counter, seeding it first when it was never set.
// Must run before the unit mutates the ledger so the seed reflects committed
// state only.
func (m *MoneySpent) Total(ctx context.Context, tx *sql.Tx, userID uint64) (decimal.Decimal, error) {
	v, ok, err := m.counter.Get(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get money spent: %w", err)
	}

	if ok {
		return v, nil
	}

	v, err = m.seed(tx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("seed money spent: %w", err)
	}

	err = m.Set(ctx, userID, v)
	if err != nil {
		return decimal.Zero, err
	}

	return v, nil
}

func (m *MoneySpent) Set(ctx context.Context, userID uint64, v decimal.Decimal) error {
	err := m.counter.Set(ctx, userID, v)
	if err != nil {
		return fmt.Errorf("set money spent: %w", err)
	}

	return nil
}

func (m *MoneySpent) Increase(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	v, err := m.counter.Increase(ctx, userID, delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("increase money spent: %w", err)
	}

	return v, nil
}

func (m *MoneySpent) Decrease(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	v, err := m.counter.Decrease(ctx, userID, delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decrease money spent: %w", err)
	}

	return v, nil
}
