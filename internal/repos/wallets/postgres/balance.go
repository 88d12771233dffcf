package wallets

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/wallets"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// IncreaseBalance fails with ErrInvalidAmount when the new balance would not
// fit NUMERIC(12,2).

func (r *walletsRepo) IncreaseBalance(tx *sql.Tx, walletID int64, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE wallets
		SET balance = balance + $2
		WHERE id = $1
	`, walletID, amount)
	if err != nil {
		if isNumericOverflow(err) {
			return fmt.Errorf("increase balance of wallet %d by %s: %w", walletID, amount, wallets.ErrInvalidAmount)
		}

		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return wallets.ErrWalletNotFound
	}

	return nil
}

// DecreaseBalance never lets the balance go negative: a wallet that cannot
// cover amount (or does not exist) yields ErrInsufficientFunds.
func (r *walletsRepo) DecreaseBalance(tx *sql.Tx, walletID int64, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE wallets
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, walletID, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return wallets.ErrInsufficientFunds
	}

	return nil
}

func isNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22003" // numeric_value_out_of_range
	}

	return false
}
