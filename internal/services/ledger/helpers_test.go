package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fastprodman/spinwallet/internal/config"
	"github.com/fastprodman/spinwallet/internal/infra/pgtestutil"
	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	memwagering "github.com/fastprodman/spinwallet/internal/repos/wagering/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() config.LedgerConfig {
	return config.LedgerConfig{
		DefaultBetAmount:    d("1.00"),
		LoginBonusAmount:    d("1.00"),
		MinDepositForBonus:  d("100.00"),
		DepositBonusAmount:  d("20.00"),
		WageringRequirement: 10,
		WalletPriority:      PriorityBonusFirst,
		WageringFallback:    string(FallbackRecompute),
		WageringStore:       "memory",
	}
}

// recorder is a notify.Notifier that remembers every call.
type recorder struct {
	mu       sync.Mutex
	deposits []decimal.Decimal
	bets     []uint64
	logins   []uint64
}

func (r *recorder) OnDeposit(_ context.Context, _ uint64, amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deposits = append(r.deposits, amount)
}

func (r *recorder) OnBetResolved(_ context.Context, userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bets = append(r.bets, userID)
}

func (r *recorder) OnUserLoggedIn(_ context.Context, userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logins = append(r.logins, userID)
}

func (r *recorder) betCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bets)
}

var errCounterDown = errors.New("counter down")

// flakyCounter fails the n-th Increase or Decrease call (1-based, 0 = never).
type flakyCounter struct {
	wagering.Counter

	mu                  sync.Mutex
	failIncreaseAt      int
	failDecreaseAt      int
	increases, decrease int
}

func (c *flakyCounter) Increase(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	c.mu.Lock()
	c.increases++
	fail := c.increases == c.failIncreaseAt
	c.mu.Unlock()

	if fail {
		return decimal.Zero, errCounterDown
	}

	return c.Counter.Increase(ctx, userID, delta)
}

func (c *flakyCounter) Decrease(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	c.mu.Lock()
	c.decrease++
	fail := c.decrease == c.failDecreaseAt
	c.mu.Unlock()

	if fail {
		return decimal.Zero, errCounterDown
	}

	return c.Counter.Decrease(ctx, userID, delta)
}

type fixture struct {
	db      *sql.DB
	svc     *Service
	counter *memwagering.Counter
	events  *recorder
}

type fixtureOpts struct {
	cfg     func(*config.LedgerConfig)
	counter func(base *memwagering.Counter) wagering.Counter
	opts    []Option
}

func newFixture(t *testing.T, fo fixtureOpts) *fixture {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	cfg := testConfig()
	if fo.cfg != nil {
		fo.cfg(&cfg)
	}

	base := memwagering.New()

	var counter wagering.Counter = base
	if fo.counter != nil {
		counter = fo.counter(base)
	}

	events := new(recorder)

	svc, err := New(db, counter, cfg, append([]Option{WithNotifier(events)}, fo.opts...)...)
	require.NoError(t, err)

	return &fixture{db: db, svc: svc, counter: base, events: events}
}

// account opens userID and funds its real money wallet outside the engines,
// keeping balance equal to the transaction sum.
func (f *fixture) account(t *testing.T, userID uint64, balance string) Wallet {
	t.Helper()

	w, err := f.svc.OpenAccount(t.Context(), userID)
	require.NoError(t, err)

	if amount := d(balance); amount.IsPositive() {
		f.fund(t, w.ID, amount)
		w.Balance = amount
	}

	return w
}

func (f *fixture) fund(t *testing.T, walletID int64, amount decimal.Decimal) {
	t.Helper()

	_, err := f.db.Exec(`UPDATE wallets SET balance = balance + $2 WHERE id = $1`, walletID, amount)
	require.NoError(t, err)

	_, err = f.db.Exec(`
		WITH t AS (INSERT INTO transactions (wallet_id, amount) VALUES ($1, $2) RETURNING id)
		INSERT INTO deposit_marks (transaction_id) SELECT id FROM t
	`, walletID, amount)
	require.NoError(t, err)
}

// bonuses grants one login bonus wallet per amount, in order.
func (f *fixture) bonuses(t *testing.T, userID uint64, amounts ...string) []Wallet {
	t.Helper()

	out := make([]Wallet, 0, len(amounts))

	for _, a := range amounts {
		g, err := f.svc.GrantBonus(t.Context(), userID, BonusLogin, d(a))
		require.NoError(t, err)

		out = append(out, g.Wallet)
	}

	return out
}

func (f *fixture) balance(t *testing.T, walletID int64) decimal.Decimal {
	t.Helper()

	var b decimal.Decimal

	err := f.db.QueryRow(`SELECT balance FROM wallets WHERE id = $1`, walletID).Scan(&b)
	require.NoError(t, err)

	return b
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()

	var n int

	err := f.db.QueryRow(fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&n)
	require.NoError(t, err)

	return n
}

func (f *fixture) spent(t *testing.T, userID uint64) (decimal.Decimal, bool) {
	t.Helper()

	v, ok, err := f.counter.Get(t.Context(), userID)
	require.NoError(t, err)

	return v, ok
}

// requireConsistent checks that every wallet balance equals its ledger sum.
func (f *fixture) requireConsistent(t *testing.T, userID uint64) {
	t.Helper()

	audits, err := f.svc.Audit(t.Context(), userID)
	require.NoError(t, err)

	for _, a := range audits {
		require.Truef(t, a.Consistent(), "wallet %d: balance %s, ledger sum %s",
			a.Wallet.ID, a.Wallet.Balance, a.LedgerSum)
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()

	require.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}
