package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/wallets"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *walletsRepo) Create(tx *sql.Tx, userID uint64, kind wallets.Kind, wageringRequirement int) (wallets.Wallet, error) {
	w, err := scanWallet(tx.QueryRow(`
		INSERT INTO wallets (user_id, kind, wagering_requirement)
		VALUES ($1, $2, $3)
		RETURNING `+walletColumns,
		userID, string(kind), wageringRequirement))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation on the real money index
				return wallets.Wallet{}, wallets.ErrRealMoneyWalletExists
			}
		}

		return wallets.Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}

	return w, nil
}

func (r *walletsRepo) Get(tx *sql.Tx, walletID int64) (wallets.Wallet, error) {
	w, err := scanWallet(tx.QueryRow(`
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1
	`, walletID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wallets.Wallet{}, wallets.ErrWalletNotFound
		}

		return wallets.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}

	return w, nil
}

func (r *walletsRepo) RealMoney(tx *sql.Tx, userID uint64) (wallets.Wallet, error) {
	w, err := scanWallet(tx.QueryRow(`
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		  AND kind = 'real_money'
		FOR UPDATE
	`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wallets.Wallet{}, wallets.ErrWalletNotFound
		}

		return wallets.Wallet{}, fmt.Errorf("get real money wallet: %w", err)
	}

	return w, nil
}

func (r *walletsRepo) ListForUpdate(tx *sql.Tx, userID uint64) ([]wallets.Wallet, error) {
	rows, err := tx.Query(`
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		ORDER BY id
		FOR UPDATE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	ws, err := scanWallets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan wallets: %w", err)
	}

	return ws, nil
}

func (r *walletsRepo) SettlementCandidates(tx *sql.Tx, userID uint64) ([]wallets.Wallet, error) {
	rows, err := tx.Query(`
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		  AND kind = 'bonus'
		  AND balance > 0
		ORDER BY balance ASC, id ASC
		FOR UPDATE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list settlement candidates: %w", err)
	}

	ws, err := scanWallets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan settlement candidates: %w", err)
	}

	return ws, nil
}

func (r *walletsRepo) ListByUser(ctx context.Context, userID uint64) ([]wallets.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	ws, err := scanWallets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan wallets: %w", err)
	}

	return ws, nil
}
