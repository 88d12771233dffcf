package transactions

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/transactions"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, walletID int64, amount decimal.Decimal) (transactions.Transaction, error) {
	var t transactions.Transaction

	err := tx.QueryRow(`
		INSERT INTO transactions (wallet_id, amount)
		VALUES ($1, $2)
		RETURNING id, wallet_id, amount, created_at
	`, walletID, amount).Scan(&t.ID, &t.WalletID, &t.Amount, &t.CreatedAt)
	if err != nil {
		return transactions.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return t, nil
}

func (r *transactionsRepo) LinkGame(tx *sql.Tx, gameID, transactionID int64) error {
	return link(tx, transactionID, `
		INSERT INTO game_transactions (game_id, transaction_id)
		VALUES ($1, $2)
	`, gameID, transactionID)
}

func (r *transactionsRepo) LinkBonusGrant(tx *sql.Tx, transactionID int64, tag transactions.BonusTag) error {
	return link(tx, transactionID, `
		INSERT INTO bonus_grants (transaction_id, tag)
		VALUES ($1, $2)
	`, transactionID, string(tag))
}

func (r *transactionsRepo) LinkDepositMark(tx *sql.Tx, transactionID int64) error {
	return link(tx, transactionID, `
		INSERT INTO deposit_marks (transaction_id)
		VALUES ($1)
	`, transactionID)
}

func (r *transactionsRepo) InsertSettlement(tx *sql.Tx, s transactions.Settlement) (transactions.Settlement, error) {
	for _, id := range []int64{s.TransactionID, s.DebitTransactionID} {
		err := ensureUnlinked(tx, id)
		if err != nil {
			return transactions.Settlement{}, err
		}
	}

	err := tx.QueryRow(`
		INSERT INTO wagering_settlements (
			bonus_wallet_id, real_money_wallet_id, transaction_id,
			debit_transaction_id, amount, wagering_requirement
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, s.BonusWalletID, s.RealMoneyWalletID, s.TransactionID,
		s.DebitTransactionID, s.Amount, s.WageringRequirement,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return transactions.Settlement{}, transactions.ErrAlreadyLinked
		}

		return transactions.Settlement{}, fmt.Errorf("insert settlement: %w", err)
	}

	return s, nil
}

// link enforces that a transaction has a single origin across all link tables.
func link(tx *sql.Tx, transactionID int64, query string, args ...any) error {
	err := ensureUnlinked(tx, transactionID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return transactions.ErrAlreadyLinked
		}

		return fmt.Errorf("link transaction: %w", err)
	}

	return nil
}

func ensureUnlinked(tx *sql.Tx, transactionID int64) error {
	var linked bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM game_transactions WHERE transaction_id = $1)
		    OR EXISTS(SELECT 1 FROM bonus_grants WHERE transaction_id = $1)
		    OR EXISTS(SELECT 1 FROM deposit_marks WHERE transaction_id = $1)
		    OR EXISTS(SELECT 1 FROM wagering_settlements
		              WHERE transaction_id = $1 OR debit_transaction_id = $1)
	`, transactionID).Scan(&linked)
	if err != nil {
		return fmt.Errorf("check transaction links: %w", err)
	}

	if linked {
		return transactions.ErrAlreadyLinked
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}

	return false
}
