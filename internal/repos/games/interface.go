package games

import (
	"database/sql"
	"errors"
	"time"
)

var ErrInvalidOutcome = errors.New("invalid outcome")

type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomeWon, OutcomeLost:
		return o, nil
	default:
		return "", ErrInvalidOutcome
	}
}

// Game is one resolved round. A game owns exactly one transaction.
type Game struct {
	ID        int64
	Outcome   Outcome
	CreatedAt time.Time
}

type Games interface {
	Insert(tx *sql.Tx, outcome Outcome) (Game, error)
}
