// Package ledger implements the wallet engines: debits for lost bets, credits
// for wins, deposits and bonuses, and wagering settlement of bonus wallets.
//
// Every mutating operation runs as one database transaction that starts by
// locking the user row, so operations for the same user are serialized across
// processes while different users proceed in parallel.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/spinwallet/internal/config"
	"github.com/fastprodman/spinwallet/internal/infra/metrics"
	"github.com/fastprodman/spinwallet/internal/infra/pgutils"
	"github.com/fastprodman/spinwallet/internal/repos/games"
	pggames "github.com/fastprodman/spinwallet/internal/repos/games/postgres"
	"github.com/fastprodman/spinwallet/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/spinwallet/internal/repos/transactions/postgres"
	"github.com/fastprodman/spinwallet/internal/repos/users"
	pgusers "github.com/fastprodman/spinwallet/internal/repos/users/postgres"
	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	"github.com/fastprodman/spinwallet/internal/repos/wallets"
	pgwallets "github.com/fastprodman/spinwallet/internal/repos/wallets/postgres"
	"github.com/fastprodman/spinwallet/internal/services/notify"
)

type Service struct {
	db       *sql.DB
	users    users.Users
	wallets  wallets.Wallets
	txns     transactions.Transactions
	games    games.Games
	spent    *MoneySpent
	cfg      config.LedgerConfig
	priority Priority
	notifier notify.Notifier
	outcomes OutcomeSource
}

type Option func(*Service)

// WithNotifier sets the receiver of post-commit events. Defaults to notify.Nop.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithOutcomeSource sets where PlayRandom draws outcomes from.
func WithOutcomeSource(src OutcomeSource) Option {
	return func(s *Service) {
		if src != nil {
			s.outcomes = src
		}
	}
}

// WithPriority overrides the wallet priority named in the config.
func WithPriority(p Priority) Option {
	return func(s *Service) {
		if p != nil {
			s.priority = p
		}
	}
}

func New(db *sql.DB, counter wagering.Counter, cfg config.LedgerConfig, opts ...Option) (*Service, error) {
	prio, err := ParsePriority(cfg.WalletPriority)
	if err != nil {
		return nil, fmt.Errorf("ledger config: %w", err)
	}

	fallback, err := ParseFallback(cfg.WageringFallback)
	if err != nil {
		return nil, fmt.Errorf("ledger config: %w", err)
	}

	if cfg.WageringRequirement < 0 {
		return nil, fmt.Errorf("ledger config: negative wagering requirement %d", cfg.WageringRequirement)
	}

	txns := pgtransactions.New(db)

	s := &Service{
		db:       db,
		users:    pgusers.New(db),
		wallets:  pgwallets.New(db),
		txns:     txns,
		games:    pggames.New(db),
		spent:    newMoneySpent(counter, fallback, txns),
		cfg:      cfg,
		priority: prio,
		notifier: notify.Nop{},
		outcomes: RandomOutcomes{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// unit is one database transaction plus the counter compensations to run if
// it does not commit.
type unit struct {
	tx   *sql.Tx
	undo []func(ctx context.Context) error
}

func (u *unit) onRollback(fn func(ctx context.Context) error) {
	u.undo = append(u.undo, fn)
}

func (u *unit) compensate(ctx context.Context, op string) {
	ctx = context.WithoutCancel(ctx)

	for i := len(u.undo) - 1; i >= 0; i-- {
		err := u.undo[i](ctx)
		if err != nil {
			slog.ErrorContext(ctx, "wagering compensation failed", "operation", op, "error", err)
		}
	}
}

func (s *Service) withUnit(ctx context.Context, op string, fn func(u *unit) error) error {
	started := time.Now()
	u := new(unit)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u.tx = tx

		return fn(u)
	})
	if err != nil {
		u.compensate(ctx, op)
		metrics.ObserveOperation(op, resultOf(err), started)

		return err
	}

	metrics.ObserveOperation(op, metrics.ResultOK, started)

	return nil
}

// withUserUnit is withUnit holding the user's row lock for the whole unit.
func (s *Service) withUserUnit(ctx context.Context, op string, userID uint64, fn func(u *unit) error) error {
	return s.withUnit(ctx, op, func(u *unit) error {
		err := s.users.Lock(u.tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		return fn(u)
	})
}

func resultOf(err error) string {
	if IsBusinessError(err) {
		return metrics.ResultRejected
	}

	return metrics.ResultError
}
