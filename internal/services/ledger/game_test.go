package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	memwagering "github.com/fastprodman/spinwallet/internal/repos/wagering/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedOutcome struct {
	outcome Outcome
	err     error
}

func (f fixedOutcome) Next(context.Context) (Outcome, error) {
	return f.outcome, f.err
}

func TestPlayBet_AccruesWagering(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	rm := f.account(t, 1, "10")

	_, ok := f.spent(t, 1)
	require.False(t, ok)

	lost, err := f.svc.PlayBet(t.Context(), 1, OutcomeLost, d("2"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeLost, lost.Outcome)
	assert.NotZero(t, lost.Game.ID)

	won, err := f.svc.PlayBet(t.Context(), 1, OutcomeWon, d("3"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, won.Outcome)

	spent, ok := f.spent(t, 1)
	require.True(t, ok)
	requireDecimal(t, "5", spent)

	requireDecimal(t, "11", f.balance(t, rm.ID))
	assert.Equal(t, 2, f.events.betCount())
	f.requireConsistent(t, 1)
}

func TestPlayBet_InsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	rm := f.account(t, 1, "1")

	_, err := f.svc.PlayBet(t.Context(), 1, OutcomeLost, d("2"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	requireDecimal(t, "1", f.balance(t, rm.ID))
	assert.Equal(t, 0, f.count(t, "games"))
	assert.Equal(t, 0, f.events.betCount(), "no event for a rejected bet")

	spent, _ := f.spent(t, 1)
	requireDecimal(t, "0", spent)
}

func TestPlayBet_CounterFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{counter: func(base *memwagering.Counter) wagering.Counter {
		return &flakyCounter{Counter: base, failIncreaseAt: 1}
	}})
	rm := f.account(t, 1, "10")

	_, err := f.svc.PlayBet(t.Context(), 1, OutcomeLost, d("2"))
	require.ErrorIs(t, err, errCounterDown)
	assert.False(t, IsBusinessError(err))

	requireDecimal(t, "10", f.balance(t, rm.ID))
	assert.Equal(t, 0, f.count(t, "games"))
	assert.Equal(t, 0, f.count(t, "game_transactions"))
	assert.Equal(t, 0, f.events.betCount())
}

func TestPlayBet_SameUserIsSerialized(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	rm := f.account(t, 1, "10")

	const players = 20

	var (
		wg                    sync.WaitGroup
		mu                    sync.Mutex
		success, insufficient int
	)

	for range players {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.PlayBet(context.Background(), 1, OutcomeLost, d("1"))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 10, success)
	assert.Equal(t, players-10, insufficient)
	requireDecimal(t, "0", f.balance(t, rm.ID))

	spent, _ := f.spent(t, 1)
	requireDecimal(t, "10", spent)
	f.requireConsistent(t, 1)
}

func TestPlayRandom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{opts: []Option{WithOutcomeSource(fixedOutcome{outcome: OutcomeWon})}})
	rm := f.account(t, 1, "1")

	res, err := f.svc.PlayRandom(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	requireDecimal(t, "2.00", f.balance(t, rm.ID), "default bet credited")
}

func TestPlayRandom_SourceError(t *testing.T) {
	t.Parallel()

	errRNG := errors.New("rng unavailable")

	svc, err := New(nil, memwagering.New(), testConfig(), WithOutcomeSource(fixedOutcome{err: errRNG}))
	require.NoError(t, err)

	_, err = svc.PlayRandom(t.Context(), 1)
	require.ErrorIs(t, err, errRNG)
}

func TestPlayBet_InvalidOutcome(t *testing.T) {
	t.Parallel()

	svc, err := New(nil, memwagering.New(), testConfig())
	require.NoError(t, err)

	_, err = svc.PlayBet(t.Context(), 1, Outcome("draw"), d("1"))
	require.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestRandomOutcomes(t *testing.T) {
	t.Parallel()

	seen := map[Outcome]bool{}

	for range 200 {
		o, err := RandomOutcomes{}.Next(t.Context())
		require.NoError(t, err)

		seen[o] = true
	}

	assert.True(t, seen[OutcomeWon] && seen[OutcomeLost], "both outcomes drawn: %v", seen)
}
