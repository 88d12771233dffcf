package wagering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fastprodman/spinwallet/internal/repos/wagering"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Values are kept in cents so INCRBY stays exact.
const scale = 2

const uninitializedReply = "UNINITIALIZED"

// incrExisting refuses to create the key; a missing counter must be seeded
// from the ledger, not silently started at zero.
var incrExisting = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return redis.error_reply('` + uninitializedReply + `')
end
return redis.call('INCRBY', KEYS[1], ARGV[1])
`)

var _ wagering.Counter = (*Counter)(nil)

type Counter struct {
	rdb redis.UniversalClient
}

func New(rdb redis.UniversalClient) *Counter {
	return &Counter{rdb: rdb}
}

func (c *Counter) Get(ctx context.Context, userID uint64) (decimal.Decimal, bool, error) {
	cents, err := c.rdb.Get(ctx, wagering.Key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}

		return decimal.Zero, false, fmt.Errorf("get counter: %w", err)
	}

	return fromCents(cents), true, nil
}

func (c *Counter) Set(ctx context.Context, userID uint64, value decimal.Decimal) error {
	err := c.rdb.Set(ctx, wagering.Key(userID), toCents(value), 0).Err()
	if err != nil {
		return fmt.Errorf("set counter: %w", err)
	}

	return nil
}

func (c *Counter) Increase(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	return c.incr(ctx, userID, toCents(delta))
}

func (c *Counter) Decrease(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	return c.incr(ctx, userID, -toCents(delta))
}

func (c *Counter) incr(ctx context.Context, userID uint64, cents int64) (decimal.Decimal, error) {
	total, err := incrExisting.Run(ctx, c.rdb, []string{wagering.Key(userID)}, cents).Int64()
	if err != nil {
		if strings.Contains(err.Error(), uninitializedReply) {
			return decimal.Zero, wagering.ErrUninitialized
		}

		return decimal.Zero, fmt.Errorf("incr counter: %w", err)
	}

	return fromCents(total), nil
}

func (c *Counter) Clear(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, wagering.KeyPattern(), 100).Result()
		if err != nil {
			return fmt.Errorf("scan counters: %w", err)
		}

		if len(keys) > 0 {
			err = c.rdb.Del(ctx, keys...).Err()
			if err != nil {
				return fmt.Errorf("delete counters: %w", err)
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func toCents(v decimal.Decimal) int64 {
	return v.Round(scale).Shift(scale).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -scale)
}
