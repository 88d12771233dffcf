package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// CreditWin pays a won bet into the wallet a debit of the same amount would
// have used. When no wallet covers amount the win is rejected with
// ErrInsufficientFunds and nothing is written.
func (s *Service) CreditWin(ctx context.Context, userID uint64, amount decimal.Decimal) (Transaction, error) {
	err := validateAmount(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("credit win: %w", err)
	}

	var res BetResult

	err = s.withUserUnit(ctx, "credit_win", userID, func(u *unit) error {
		var err error

		res, err = s.creditWin(ctx, u, userID, amount)

		return err
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("credit win: %w", err)
	}

	return res.Transaction, nil
}

func (s *Service) creditWin(ctx context.Context, u *unit, userID uint64, amount decimal.Decimal) (BetResult, error) {
	ws, err := s.wallets.ListForUpdate(u.tx, userID)
	if err != nil {
		return BetResult{}, fmt.Errorf("list wallets: %w", err)
	}

	w, ok := pickWallet(ws, amount, s.priority)
	if !ok {
		return BetResult{}, fmt.Errorf("no wallet covers %s: %w", amount, ErrInsufficientFunds)
	}

	game, err := s.games.Insert(u.tx, OutcomeWon)
	if err != nil {
		return BetResult{}, fmt.Errorf("create game: %w", err)
	}

	t, err := s.credit(u, w.ID, amount)
	if err != nil {
		return BetResult{}, err
	}

	err = s.txns.LinkGame(u.tx, game.ID, t.ID)
	if err != nil {
		return BetResult{}, fmt.Errorf("link game: %w", err)
	}

	slog.InfoContext(ctx, "bet won",
		"user_id", userID, "wallet_id", w.ID, "wallet_kind", w.Kind, "amount", amount.String())

	return BetResult{Outcome: OutcomeWon, Game: game, Transaction: t}, nil
}

// credit raises the wallet balance and records the matching transaction.
func (s *Service) credit(u *unit, walletID int64, amount decimal.Decimal) (Transaction, error) {
	err := s.wallets.IncreaseBalance(u.tx, walletID, amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("increase balance: %w", err)
	}

	t, err := s.txns.Insert(u.tx, walletID, amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return t, nil
}

// GrantBonus always opens a new bonus wallet holding amount; existing bonus
// wallets are never topped up.
func (s *Service) GrantBonus(ctx context.Context, userID uint64, tag BonusTag, amount decimal.Decimal) (BonusGrant, error) {
	err := validateAmount(amount)
	if err != nil {
		return BonusGrant{}, fmt.Errorf("grant bonus: %w", err)
	}

	if !tag.Valid() {
		return BonusGrant{}, fmt.Errorf("grant bonus: %w: %q", ErrInvalidBonusTag, tag)
	}

	var grant BonusGrant

	err = s.withUserUnit(ctx, "grant_bonus", userID, func(u *unit) error {
		var err error

		grant, err = s.grantBonus(ctx, u, userID, tag, amount)

		return err
	})
	if err != nil {
		return BonusGrant{}, fmt.Errorf("grant bonus: %w", err)
	}

	return grant, nil
}

func (s *Service) grantBonus(ctx context.Context, u *unit, userID uint64, tag BonusTag, amount decimal.Decimal) (BonusGrant, error) {
	w, err := s.wallets.Create(u.tx, userID, KindBonus, s.cfg.WageringRequirement)
	if err != nil {
		return BonusGrant{}, fmt.Errorf("create bonus wallet: %w", err)
	}

	t, err := s.credit(u, w.ID, amount)
	if err != nil {
		return BonusGrant{}, err
	}

	err = s.txns.LinkBonusGrant(u.tx, t.ID, tag)
	if err != nil {
		return BonusGrant{}, fmt.Errorf("link bonus grant: %w", err)
	}

	w.Balance = w.Balance.Add(amount)

	slog.InfoContext(ctx, "bonus granted",
		"user_id", userID, "wallet_id", w.ID, "tag", tag, "amount", amount.String())

	return BonusGrant{Tag: tag, Wallet: w, Transaction: t}, nil
}

// Deposit credits the real money wallet. A deposit strictly above the
// configured threshold also grants a deposit bonus in the same unit.
func (s *Service) Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (DepositResult, error) {
	err := validateAmount(amount)
	if err != nil {
		return DepositResult{}, fmt.Errorf("deposit: %w", err)
	}

	var res DepositResult

	err = s.withUserUnit(ctx, "deposit", userID, func(u *unit) error {
		rm, err := s.wallets.RealMoney(u.tx, userID)
		if err != nil {
			return fmt.Errorf("real money wallet: %w", err)
		}

		res.Transaction, err = s.credit(u, rm.ID, amount)
		if err != nil {
			return err
		}

		err = s.txns.LinkDepositMark(u.tx, res.Transaction.ID)
		if err != nil {
			return fmt.Errorf("mark deposit: %w", err)
		}

		if amount.GreaterThan(s.cfg.MinDepositForBonus) && s.cfg.DepositBonusAmount.IsPositive() {
			grant, err := s.grantBonus(ctx, u, userID, BonusRealMoneyDeposit, s.cfg.DepositBonusAmount)
			if err != nil {
				return fmt.Errorf("deposit bonus: %w", err)
			}

			res.Bonus = &grant
		}

		return nil
	})
	if err != nil {
		return DepositResult{}, fmt.Errorf("deposit: %w", err)
	}

	slog.InfoContext(ctx, "deposit accepted",
		"user_id", userID, "amount", amount.String(), "bonus", res.Bonus != nil)

	s.notifier.OnDeposit(ctx, userID, amount)

	return res, nil
}

// LoginBonus credits the configured login amount straight to real money.
func (s *Service) LoginBonus(ctx context.Context, userID uint64) (Transaction, error) {
	amount := s.cfg.LoginBonusAmount

	err := validateAmount(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("login bonus: %w", err)
	}

	var t Transaction

	err = s.withUserUnit(ctx, "login_bonus", userID, func(u *unit) error {
		rm, err := s.wallets.RealMoney(u.tx, userID)
		if err != nil {
			return fmt.Errorf("real money wallet: %w", err)
		}

		t, err = s.credit(u, rm.ID, amount)
		if err != nil {
			return err
		}

		err = s.txns.LinkBonusGrant(u.tx, t.ID, BonusLogin)
		if err != nil {
			return fmt.Errorf("link bonus grant: %w", err)
		}

		return nil
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("login bonus: %w", err)
	}

	slog.InfoContext(ctx, "login bonus credited", "user_id", userID, "amount", amount.String())

	return t, nil
}
