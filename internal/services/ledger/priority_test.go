package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallet(id int64, kind Kind, balance string) Wallet {
	return Wallet{ID: id, Kind: kind, Balance: d(balance)}
}

func TestPickWallet(t *testing.T) {
	t.Parallel()

	ws := []Wallet{
		wallet(1, KindRealMoney, "20"),
		wallet(2, KindBonus, "5"),
		wallet(3, KindBonus, "15"),
		wallet(4, KindBonus, "15"),
	}

	tests := []struct {
		priority Priority
		amount   string
		wantID   int64
		wantOK   bool
	}{
		{priority: BonusFirst, amount: "5", wantID: 2, wantOK: true},
		{priority: BonusFirst, amount: "14", wantID: 3, wantOK: true},
		{priority: BonusFirst, amount: "16", wantID: 1, wantOK: true},
		{priority: BonusFirst, amount: "21"},
		{priority: RealMoneyFirst, amount: "5", wantID: 1, wantOK: true},
		{priority: RealMoneyFirst, amount: "20", wantID: 1, wantOK: true},
		{priority: RealMoneyFirst, amount: "20.01"},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", i, tt.amount), func(t *testing.T) {
			t.Parallel()

			got, ok := pickWallet(ws, d(tt.amount), tt.priority)
			require.Equal(t, tt.wantOK, ok)

			if ok {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}

	assert.Equal(t, int64(1), ws[0].ID, "input order is not modified")
}

func TestPriority_TotalOrder(t *testing.T) {
	t.Parallel()

	a := wallet(1, KindRealMoney, "0")
	b := wallet(2, KindBonus, "0")
	c := wallet(3, KindBonus, "0")

	assert.Positive(t, BonusFirst(a, b))
	assert.Negative(t, BonusFirst(b, c))
	assert.Zero(t, BonusFirst(b, b))

	assert.Negative(t, RealMoneyFirst(a, b))
	assert.Negative(t, RealMoneyFirst(b, c))
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	p, err := ParsePriority(PriorityRealMoneyFirst)
	require.NoError(t, err)
	assert.Negative(t, p(wallet(9, KindRealMoney, "0"), wallet(1, KindBonus, "0")))

	_, err = ParsePriority("random")
	require.Error(t, err)
}
