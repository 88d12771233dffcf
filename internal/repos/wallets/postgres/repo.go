package wallets

import (
	"database/sql"

	"github.com/fastprodman/spinwallet/internal/repos/wallets"
)

var _ wallets.Wallets = (*walletsRepo)(nil)

type walletsRepo struct{ db *sql.DB }

func New(db *sql.DB) *walletsRepo {
	return &walletsRepo{db: db}
}

const walletColumns = `id, user_id, kind, balance, wagering_requirement, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (wallets.Wallet, error) {
	var w wallets.Wallet

	err := row.Scan(&w.ID, &w.UserID, &w.Kind, &w.Balance, &w.WageringRequirement, &w.CreatedAt)
	if err != nil {
		return wallets.Wallet{}, err
	}

	return w, nil
}

func scanWallets(rows *sql.Rows) ([]wallets.Wallet, error) {
	//nolint:errcheck
	defer rows.Close()

	var out []wallets.Wallet

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, w)
	}

	err := rows.Err()
	if err != nil {
		return nil, err
	}

	return out, nil
}
