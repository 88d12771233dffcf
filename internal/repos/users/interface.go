package users

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type Users interface {
	Create(tx *sql.Tx, userID uint64) error
	Exists(tx *sql.Tx, userID uint64) error
	// Lock takes the per-user row lock that serializes every ledger unit of work.
	Lock(tx *sql.Tx, userID uint64) error
	List(ctx context.Context) ([]uint64, error)
}
