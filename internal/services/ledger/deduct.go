package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Debit charges a lost bet against exactly one wallet: the first one, in
// priority order, whose balance covers amount. The bet is never split.
// It does not touch the wagering counter.
func (s *Service) Debit(ctx context.Context, userID uint64, amount decimal.Decimal) (Transaction, error) {
	err := validateAmount(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("debit: %w", err)
	}

	var res BetResult

	err = s.withUserUnit(ctx, "debit", userID, func(u *unit) error {
		var err error

		res, err = s.debit(ctx, u, userID, amount)

		return err
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("debit: %w", err)
	}

	return res.Transaction, nil
}

func (s *Service) debit(ctx context.Context, u *unit, userID uint64, amount decimal.Decimal) (BetResult, error) {
	ws, err := s.wallets.ListForUpdate(u.tx, userID)
	if err != nil {
		return BetResult{}, fmt.Errorf("list wallets: %w", err)
	}

	w, ok := pickWallet(ws, amount, s.priority)
	if !ok {
		return BetResult{}, fmt.Errorf("no wallet covers %s: %w", amount, ErrInsufficientFunds)
	}

	game, err := s.games.Insert(u.tx, OutcomeLost)
	if err != nil {
		return BetResult{}, fmt.Errorf("create game: %w", err)
	}

	err = s.wallets.DecreaseBalance(u.tx, w.ID, amount)
	if err != nil {
		return BetResult{}, fmt.Errorf("decrease balance: %w", err)
	}

	t, err := s.txns.Insert(u.tx, w.ID, amount.Neg())
	if err != nil {
		return BetResult{}, fmt.Errorf("insert transaction: %w", err)
	}

	err = s.txns.LinkGame(u.tx, game.ID, t.ID)
	if err != nil {
		return BetResult{}, fmt.Errorf("link game: %w", err)
	}

	slog.InfoContext(ctx, "bet lost",
		"user_id", userID, "wallet_id", w.ID, "wallet_kind", w.Kind, "amount", amount.String())

	return BetResult{Outcome: OutcomeLost, Game: game, Transaction: t}, nil
}
