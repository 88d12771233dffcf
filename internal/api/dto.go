package api

import (
	"time"

	"github.com/fastprodman/spinwallet/internal/services/ledger"
	"github.com/shopspring/decimal"
)

// Money is rendered as a string with 2 decimals.

type walletResponse struct {
	ID                  int64  `json:"id"`
	Kind                string `json:"kind"`
	Balance             string `json:"balance"`
	WageringRequirement int    `json:"wageringRequirement"`
}

type dashboardResponse struct {
	UserID       uint64           `json:"userId"`
	RealMoney    *walletResponse  `json:"realMoney"`
	Bonuses      []walletResponse `json:"bonuses"`
	BonusBalance string           `json:"bonusBalance"`
}

type transactionResponse struct {
	ID        int64     `json:"id"`
	WalletID  int64     `json:"walletId"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type bonusResponse struct {
	Tag         string              `json:"tag"`
	Wallet      walletResponse      `json:"wallet"`
	Transaction transactionResponse `json:"transaction"`
}

type depositResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Bonus       *bonusResponse      `json:"bonus,omitempty"`
}

type betResponse struct {
	Outcome     string              `json:"outcome"`
	GameID      int64               `json:"gameId"`
	Transaction transactionResponse `json:"transaction"`
}

type settlementResponse struct {
	ID                  int64  `json:"id"`
	BonusWalletID       int64  `json:"bonusWalletId"`
	RealMoneyWalletID   int64  `json:"realMoneyWalletId"`
	Amount              string `json:"amount"`
	WageringRequirement int    `json:"wageringRequirement"`
}

type auditResponse struct {
	Wallet     walletResponse `json:"wallet"`
	LedgerSum  string         `json:"ledgerSum"`
	Consistent bool           `json:"consistent"`
}

func toWalletResponse(w ledger.Wallet) walletResponse {
	return walletResponse{
		ID:                  w.ID,
		Kind:                string(w.Kind),
		Balance:             w.Balance.StringFixed(2),
		WageringRequirement: w.WageringRequirement,
	}
}

func toDashboard(userID uint64, ws []ledger.Wallet) dashboardResponse {
	resp := dashboardResponse{UserID: userID, Bonuses: []walletResponse{}}

	bonusTotal := decimal.Zero

	for _, w := range ws {
		wr := toWalletResponse(w)

		if w.Kind == ledger.KindRealMoney {
			resp.RealMoney = &wr
			continue
		}

		resp.Bonuses = append(resp.Bonuses, wr)
		bonusTotal = bonusTotal.Add(w.Balance)
	}

	resp.BonusBalance = bonusTotal.StringFixed(2)

	return resp
}

func toTransactionResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		WalletID:  t.WalletID,
		Amount:    t.Amount.StringFixed(2),
		CreatedAt: t.CreatedAt,
	}
}

func toBonusResponse(g ledger.BonusGrant) bonusResponse {
	return bonusResponse{
		Tag:         string(g.Tag),
		Wallet:      toWalletResponse(g.Wallet),
		Transaction: toTransactionResponse(g.Transaction),
	}
}

func toSettlementResponses(sts []ledger.Settlement) []settlementResponse {
	out := make([]settlementResponse, 0, len(sts))

	for _, s := range sts {
		out = append(out, settlementResponse{
			ID:                  s.ID,
			BonusWalletID:       s.BonusWalletID,
			RealMoneyWalletID:   s.RealMoneyWalletID,
			Amount:              s.Amount.StringFixed(2),
			WageringRequirement: s.WageringRequirement,
		})
	}

	return out
}
