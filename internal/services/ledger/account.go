package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fastprodman/spinwallet/internal/infra/pgutils"
)

// OpenAccount creates the user together with its real money wallet.
func (s *Service) OpenAccount(ctx context.Context, userID uint64) (Wallet, error) {
	var w Wallet

	err := s.withUnit(ctx, "open_account", func(u *unit) error {
		err := s.users.Create(u.tx, userID)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		w, err = s.wallets.Create(u.tx, userID, KindRealMoney, s.cfg.WageringRequirement)
		if err != nil {
			return fmt.Errorf("create real money wallet: %w", err)
		}

		return nil
	})
	if err != nil {
		return Wallet{}, fmt.Errorf("open account: %w", err)
	}

	slog.InfoContext(ctx, "account opened", "user_id", userID, "wallet_id", w.ID)

	return w, nil
}

// Wallets lists the user's wallets in creation order. Reads are not locked.
func (s *Service) Wallets(ctx context.Context, userID uint64) ([]Wallet, error) {
	ws, err := s.wallets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	if len(ws) == 0 {
		return nil, fmt.Errorf("list wallets: %w", ErrUserNotFound)
	}

	return ws, nil
}

func (s *Service) Settlements(ctx context.Context, userID uint64) ([]Settlement, error) {
	sts, err := s.txns.ListSettlements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}

	return sts, nil
}

// Audit recomputes every wallet's balance from its transactions.
func (s *Service) Audit(ctx context.Context, userID uint64) ([]WalletAudit, error) {
	ws, err := s.Wallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	out := make([]WalletAudit, 0, len(ws))

	for _, w := range ws {
		sum, err := s.txns.SumByWallet(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("audit wallet %d: %w", w.ID, err)
		}

		out = append(out, WalletAudit{Wallet: w, LedgerSum: sum})
	}

	return out, nil
}

// Login records a login and emits OnUserLoggedIn; subscribers grant the
// login bonus.
func (s *Service) Login(ctx context.Context, userID uint64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.users.Exists(tx, userID)
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", userID)

	s.notifier.OnUserLoggedIn(ctx, userID)

	return nil
}

// WalletTransactions lists a wallet's ledger; the wallet must belong to userID.
func (s *Service) WalletTransactions(ctx context.Context, userID uint64, walletID int64) ([]Transaction, error) {
	ws, err := s.Wallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet transactions: %w", err)
	}

	if !slices.ContainsFunc(ws, func(w Wallet) bool { return w.ID == walletID }) {
		return nil, fmt.Errorf("wallet transactions: %w", ErrWalletNotFound)
	}

	ts, err := s.txns.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("wallet transactions: %w", err)
	}

	return ts, nil
}
