package ledger

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Priority orders a user's wallets for debits and game wins. It must be a
// total order so the choice is deterministic.
type Priority func(a, b Wallet) int

const (
	PriorityBonusFirst     = "bonus_first"
	PriorityRealMoneyFirst = "real_money_first"
)

// BonusFirst drains bonus wallets in creation order before real money.
func BonusFirst(a, b Wallet) int {
	return cmp.Or(
		cmp.Compare(rank(a, KindBonus), rank(b, KindBonus)),
		cmp.Compare(a.ID, b.ID),
	)
}

// RealMoneyFirst tries the real money wallet, then bonus wallets in creation order.
func RealMoneyFirst(a, b Wallet) int {
	return cmp.Or(
		cmp.Compare(rank(a, KindRealMoney), rank(b, KindRealMoney)),
		cmp.Compare(a.ID, b.ID),
	)
}

func rank(w Wallet, first Kind) int {
	if w.Kind == first {
		return 0
	}

	return 1
}

func ParsePriority(name string) (Priority, error) {
	switch name {
	case PriorityBonusFirst:
		return BonusFirst, nil
	case PriorityRealMoneyFirst:
		return RealMoneyFirst, nil
	default:
		return nil, fmt.Errorf("unknown wallet priority %q", name)
	}
}

// pickWallet returns the first wallet in priority order whose balance covers
// amount. Debits and game wins share it.
func pickWallet(ws []Wallet, amount decimal.Decimal, prio Priority) (Wallet, bool) {
	sorted := slices.Clone(ws)
	slices.SortStableFunc(sorted, prio)

	for _, w := range sorted {
		if w.Balance.GreaterThanOrEqual(amount) {
			return w, true
		}
	}

	return Wallet{}, false
}
