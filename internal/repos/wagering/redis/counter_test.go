package wagering

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T) (*Counter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb), mr
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCounter_GetUnset(t *testing.T) {
	t.Parallel()

	c, _ := newCounter(t)

	v, ok, err := c.Get(t.Context(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, v.IsZero())
}

func TestCounter_IncreaseUninitialized(t *testing.T) {
	t.Parallel()

	c, mr := newCounter(t)

	_, err := c.Increase(t.Context(), 1, d("1.00"))
	require.ErrorIs(t, err, wagering.ErrUninitialized)

	_, err = c.Decrease(t.Context(), 1, d("1.00"))
	require.ErrorIs(t, err, wagering.ErrUninitialized)

	assert.False(t, mr.Exists(wagering.Key(1)), "script must not create the key")
}

func TestCounter_SetIncreaseDecrease(t *testing.T) {
	t.Parallel()

	c, mr := newCounter(t)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, 7, d("10.50")))

	got, err := mr.Get(wagering.Key(7))
	require.NoError(t, err)
	assert.Equal(t, "1050", got, "stored in cents")

	v, err := c.Increase(ctx, 7, d("0.25"))
	require.NoError(t, err)
	assert.True(t, v.Equal(d("10.75")), "got %s", v)

	v, err = c.Decrease(ctx, 7, d("20.00"))
	require.NoError(t, err)
	assert.True(t, v.Equal(d("-9.25")), "got %s", v)

	v, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v.Equal(d("-9.25")), "got %s", v)
}

func TestCounter_Clear(t *testing.T) {
	t.Parallel()

	c, mr := newCounter(t)
	ctx := t.Context()

	for id := uint64(1); id <= 250; id++ {
		require.NoError(t, c.Set(ctx, id, d("1")))
	}

	require.NoError(t, mr.Set("unrelated", "x"))

	require.NoError(t, c.Clear(ctx))

	_, ok, err := c.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestCounter_StoreFailure(t *testing.T) {
	t.Parallel()

	c, mr := newCounter(t)
	mr.Close()

	_, _, err := c.Get(t.Context(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, wagering.ErrUninitialized)
}
