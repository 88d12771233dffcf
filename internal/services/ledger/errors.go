package ledger

import (
	"errors"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/games"
	"github.com/fastprodman/spinwallet/internal/repos/users"
	"github.com/fastprodman/spinwallet/internal/repos/wallets"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = wallets.ErrInsufficientFunds
	ErrWalletNotFound    = wallets.ErrWalletNotFound
	ErrUserNotFound      = users.ErrUserNotFound
	ErrUserExists        = users.ErrUserExists
	ErrInvalidOutcome    = games.ErrInvalidOutcome

	ErrInvalidAmount   = wallets.ErrInvalidAmount
	ErrInvalidBonusTag = errors.New("invalid bonus tag")
)

// businessErrors need new input to succeed; anything else is a storage
// failure and may be retried as is.
var businessErrors = []error{
	ErrInsufficientFunds,
	ErrWalletNotFound,
	ErrUserNotFound,
	ErrUserExists,
	ErrInvalidOutcome,
	ErrInvalidAmount,
	ErrInvalidBonusTag,
}

func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// wallets store NUMERIC(12,2)
var maxAmount = decimal.New(1, 10)

func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount)
	case !amount.Equal(amount.Truncate(2)):
		return fmt.Errorf("%w: at most 2 decimal places, got %s", ErrInvalidAmount, amount)
	case amount.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: too large, got %s", ErrInvalidAmount, amount)
	}

	return nil
}
