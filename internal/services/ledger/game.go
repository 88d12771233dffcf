package ledger

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// OutcomeSource resolves a bet. Randomness lives outside the ledger.
type OutcomeSource interface {
	Next(ctx context.Context) (Outcome, error)
}

// RandomOutcomes is a fair coin.
type RandomOutcomes struct{}

func (RandomOutcomes) Next(context.Context) (Outcome, error) {
	if rand.IntN(2) == 0 {
		return OutcomeWon, nil
	}

	return OutcomeLost, nil
}

// PlayBet applies one resolved bet in a single unit: a loss goes through the
// debit path, a win through the credit path. Either way the bet amount is
// added to the user's money spent. OnBetResolved fires after commit.
func (s *Service) PlayBet(ctx context.Context, userID uint64, outcome Outcome, amount decimal.Decimal) (BetResult, error) {
	err := validateAmount(amount)
	if err != nil {
		return BetResult{}, fmt.Errorf("play bet: %w", err)
	}

	if outcome != OutcomeWon && outcome != OutcomeLost {
		return BetResult{}, fmt.Errorf("play bet: %w: %q", ErrInvalidOutcome, outcome)
	}

	var res BetResult

	err = s.withUserUnit(ctx, "play_bet", userID, func(u *unit) error {
		// seed before the bet's own game transaction exists
		_, err := s.spent.Total(ctx, u.tx, userID)
		if err != nil {
			return err
		}

		switch outcome {
		case OutcomeLost:
			res, err = s.debit(ctx, u, userID, amount)
		case OutcomeWon:
			res, err = s.creditWin(ctx, u, userID, amount)
		}

		if err != nil {
			return err
		}

		_, err = s.spent.Increase(ctx, userID, amount)
		if err != nil {
			return err
		}

		u.onRollback(func(ctx context.Context) error {
			_, err := s.spent.Decrease(ctx, userID, amount)
			return err
		})

		return nil
	})
	if err != nil {
		return BetResult{}, fmt.Errorf("play bet: %w", err)
	}

	s.notifier.OnBetResolved(ctx, userID)

	return res, nil
}

// PlayRandom plays the default bet with an outcome from the configured source.
func (s *Service) PlayRandom(ctx context.Context, userID uint64) (BetResult, error) {
	outcome, err := s.outcomes.Next(ctx)
	if err != nil {
		return BetResult{}, fmt.Errorf("draw outcome: %w", err)
	}

	return s.PlayBet(ctx, userID, outcome, s.cfg.DefaultBetAmount)
}
