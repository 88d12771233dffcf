// Package wagering holds an in-process counter for local runs and tests.
package wagering

import (
	"context"
	"sync"

	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	"github.com/shopspring/decimal"
)

var _ wagering.Counter = (*Counter)(nil)

// Counter is safe for concurrent use. The zero value is ready to use.
type Counter struct {
	mu     sync.Mutex
	values map[uint64]decimal.Decimal
}

func New() *Counter {
	return &Counter{values: make(map[uint64]decimal.Decimal)}
}

func (c *Counter) Get(_ context.Context, userID uint64) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[userID]

	return v, ok, nil
}

func (c *Counter) Set(_ context.Context, userID uint64, value decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.values == nil {
		c.values = make(map[uint64]decimal.Decimal)
	}

	c.values[userID] = value

	return nil
}

func (c *Counter) Increase(_ context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	return c.add(userID, delta)
}

func (c *Counter) Decrease(_ context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	return c.add(userID, delta.Neg())
}

func (c *Counter) add(userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[userID]
	if !ok {
		return decimal.Zero, wagering.ErrUninitialized
	}

	v = v.Add(delta)
	c.values[userID] = v

	return v, nil
}

func (c *Counter) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.values)

	return nil
}
