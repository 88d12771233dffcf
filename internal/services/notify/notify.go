// Package notify carries ledger events to explicitly registered subscribers.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier receives ledger events after the unit of work that caused them has
// committed. Implementations must not fail the caller.
type Notifier interface {
	OnDeposit(ctx context.Context, userID uint64, amount decimal.Decimal)
	OnBetResolved(ctx context.Context, userID uint64)
	OnUserLoggedIn(ctx context.Context, userID uint64)
}

type Kind string

const (
	KindDeposit      Kind = "deposit"
	KindBetResolved  Kind = "bet_resolved"
	KindUserLoggedIn Kind = "user_logged_in"
)

type Event struct {
	ID     uuid.UUID        `json:"id"`
	Kind   Kind             `json:"kind"`
	UserID uint64           `json:"userId"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	At     time.Time        `json:"at"`
}

func NewEvent(kind Kind, userID uint64) Event {
	return Event{
		ID:     uuid.New(),
		Kind:   kind,
		UserID: userID,
		At:     time.Now().UTC(),
	}
}

// Nop drops every event.
type Nop struct{}

var _ Notifier = Nop{}

func (Nop) OnDeposit(context.Context, uint64, decimal.Decimal) {}
func (Nop) OnBetResolved(context.Context, uint64)              {}
func (Nop) OnUserLoggedIn(context.Context, uint64)             {}
