package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/users"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *usersRepo) Create(tx *sql.Tx, userID uint64) error {
	_, err := tx.Exec(`
		INSERT INTO users (id)
		VALUES ($1)
	`, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return users.ErrUserExists
			}
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *usersRepo) Exists(tx *sql.Tx, userID uint64) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return users.ErrUserNotFound
	}

	return nil
}

func (r *usersRepo) Lock(tx *sql.Tx, userID uint64) error {
	var id uint64

	err := tx.QueryRow(`
		SELECT id
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.ErrUserNotFound
		}

		return fmt.Errorf("lock user: %w", err)
	}

	return nil
}

func (r *usersRepo) List(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var ids []uint64

	for rows.Next() {
		var id uint64

		err = rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return ids, nil
}
