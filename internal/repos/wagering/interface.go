// Package wagering stores the per-user "money spent" counter that gates
// bonus settlement.
package wagering

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUninitialized is returned by Increase and Decrease when the user has no
// counter yet. Callers seed it with Set first.
var ErrUninitialized = errors.New("wagering counter not initialized")

const keyPrefix = "money_spent:"

type Counter interface {
	// Get reports the stored value and whether the counter exists.
	Get(ctx context.Context, userID uint64) (decimal.Decimal, bool, error)
	Set(ctx context.Context, userID uint64, value decimal.Decimal) error
	Increase(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error)
	Decrease(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error)
	// Clear drops every counter.
	Clear(ctx context.Context) error
}

func Key(userID uint64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// KeyPattern matches every counter key.
func KeyPattern() string {
	return keyPrefix + "*"
}
