package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

type Handler func(ctx context.Context, ev Event) error

type subscriber struct {
	name string
	kind Kind // empty means every kind
	h    Handler
}

// Bus fans events out to subscribers synchronously, in registration order.
// Subscriber errors are logged and never reach the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs []subscriber
}

var _ Notifier = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(kind Kind, name string, h Handler) {
	if h == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, subscriber{name: name, kind: kind, h: h})
}

func (b *Bus) SubscribeAll(name string, h Handler) {
	b.Subscribe("", name, h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := make([]subscriber, 0, len(b.subs))

	for _, s := range b.subs {
		if s.kind == "" || s.kind == ev.Kind {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, ev)
	}
}

func (b *Bus) deliver(ctx context.Context, s subscriber, ev Event) {
	defer func() {
		r := recover()
		if r != nil {
			slog.ErrorContext(ctx, "event subscriber panicked",
				"subscriber", s.name, "kind", ev.Kind, "user_id", ev.UserID, "panic", r)
		}
	}()

	err := s.h(ctx, ev)
	if err != nil {
		slog.ErrorContext(ctx, "event subscriber failed",
			"subscriber", s.name, "kind", ev.Kind, "user_id", ev.UserID, "error", err)
	}
}

func (b *Bus) OnDeposit(ctx context.Context, userID uint64, amount decimal.Decimal) {
	ev := NewEvent(KindDeposit, userID)
	ev.Amount = &amount

	b.Publish(ctx, ev)
}

func (b *Bus) OnBetResolved(ctx context.Context, userID uint64) {
	b.Publish(ctx, NewEvent(KindBetResolved, userID))
}

func (b *Bus) OnUserLoggedIn(ctx context.Context, userID uint64) {
	b.Publish(ctx, NewEvent(KindUserLoggedIn, userID))
}
