package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/spinwallet/internal/infra/metrics"
	"github.com/shopspring/decimal"
)

// SettleWagering moves bonus wallets whose wagering requirement is met into
// the real money wallet.
//
// Candidates are scanned smallest balance first and the scan stops at the
// first wallet whose requirement (balance * wagering requirement) exceeds the
// money spent; larger wallets are not looked at in that pass. Each transfer
// empties the bonus wallet and consumes its requirement from the counter.
// All transfers share one unit; on failure none persist and counter
// decrements are reverted.
func (s *Service) SettleWagering(ctx context.Context, userID uint64) ([]Settlement, error) {
	var settled []Settlement

	err := s.withUserUnit(ctx, "settle_wagering", userID, func(u *unit) error {
		spent, err := s.spent.Total(ctx, u.tx, userID)
		if err != nil {
			return err
		}

		rm, err := s.wallets.RealMoney(u.tx, userID)
		if err != nil {
			return fmt.Errorf("real money wallet: %w", err)
		}

		candidates, err := s.wallets.SettlementCandidates(u.tx, userID)
		if err != nil {
			return fmt.Errorf("settlement candidates: %w", err)
		}

		transferred := decimal.Zero

		for _, bw := range candidates {
			required := bw.Balance.Mul(decimal.NewFromInt(int64(bw.WageringRequirement)))
			if spent.LessThan(required) {
				break
			}

			st, err := s.transferBonus(u, bw, rm)
			if err != nil {
				return fmt.Errorf("settle wallet %d: %w", bw.ID, err)
			}

			_, err = s.spent.Decrease(ctx, userID, required)
			if err != nil {
				return err
			}

			u.onRollback(func(ctx context.Context) error {
				_, err := s.spent.Increase(ctx, userID, required)
				return err
			})

			spent = spent.Sub(required)
			transferred = transferred.Add(bw.Balance)
			settled = append(settled, st)
		}

		// real money is credited once for the whole pass
		if transferred.IsPositive() {
			err = s.wallets.IncreaseBalance(u.tx, rm.ID, transferred)
			if err != nil {
				return fmt.Errorf("increase real money balance: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settle wagering: %w", err)
	}

	metrics.AddSettlements(len(settled))

	if len(settled) > 0 {
		slog.InfoContext(ctx, "bonus wallets settled", "user_id", userID, "count", len(settled))
	}

	return settled, nil
}

// transferBonus records the bonus-to-real-money movement. The real money
// balance itself is raised by the caller once per pass.
func (s *Service) transferBonus(u *unit, bonus, realMoney Wallet) (Settlement, error) {
	amount := bonus.Balance

	err := s.wallets.DecreaseBalance(u.tx, bonus.ID, amount)
	if err != nil {
		return Settlement{}, fmt.Errorf("empty bonus wallet: %w", err)
	}

	debit, err := s.txns.Insert(u.tx, bonus.ID, amount.Neg())
	if err != nil {
		return Settlement{}, fmt.Errorf("insert bonus debit: %w", err)
	}

	credit, err := s.txns.Insert(u.tx, realMoney.ID, amount)
	if err != nil {
		return Settlement{}, fmt.Errorf("insert real money credit: %w", err)
	}

	st, err := s.txns.InsertSettlement(u.tx, Settlement{
		BonusWalletID:       bonus.ID,
		RealMoneyWalletID:   realMoney.ID,
		TransactionID:       credit.ID,
		DebitTransactionID:  debit.ID,
		Amount:              amount,
		WageringRequirement: bonus.WageringRequirement,
	})
	if err != nil {
		return Settlement{}, fmt.Errorf("insert settlement: %w", err)
	}

	return st, nil
}
