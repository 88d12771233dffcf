package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/transactions"
	"github.com/shopspring/decimal"
)

func (r *transactionsRepo) Wagered(tx *sql.Tx, userID uint64) (decimal.Decimal, error) {
	var sum decimal.Decimal

	err := tx.QueryRow(`
		SELECT COALESCE(SUM(ABS(t.amount)), 0)
		FROM transactions t
		JOIN game_transactions gt ON gt.transaction_id = t.id
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum wagered: %w", err)
	}

	return sum, nil
}

func (r *transactionsRepo) ConsumedRequirement(tx *sql.Tx, userID uint64) (decimal.Decimal, error) {
	var sum decimal.Decimal

	err := tx.QueryRow(`
		SELECT COALESCE(SUM(s.amount * s.wagering_requirement), 0)
		FROM wagering_settlements s
		JOIN wallets w ON w.id = s.real_money_wallet_id
		WHERE w.user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum consumed requirement: %w", err)
	}

	return sum, nil
}

func (r *transactionsRepo) ListByWallet(ctx context.Context, walletID int64) ([]transactions.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, wallet_id, amount, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY id
	`, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []transactions.Transaction

	for rows.Next() {
		var t transactions.Transaction

		err = rows.Scan(&t.ID, &t.WalletID, &t.Amount, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (r *transactionsRepo) SumByWallet(ctx context.Context, walletID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE wallet_id = $1
	`, walletID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}

	return sum, nil
}

func (r *transactionsRepo) ListSettlements(ctx context.Context, userID uint64) ([]transactions.Settlement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.bonus_wallet_id, s.real_money_wallet_id, s.transaction_id,
		       s.debit_transaction_id, s.amount, s.wagering_requirement, s.created_at
		FROM wagering_settlements s
		JOIN wallets w ON w.id = s.real_money_wallet_id
		WHERE w.user_id = $1
		ORDER BY s.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []transactions.Settlement

	for rows.Next() {
		var s transactions.Settlement

		err = rows.Scan(&s.ID, &s.BonusWalletID, &s.RealMoneyWalletID, &s.TransactionID,
			&s.DebitTransactionID, &s.Amount, &s.WageringRequirement, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}

		out = append(out, s)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}

	return out, nil
}
