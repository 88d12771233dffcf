package games

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/spinwallet/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

func (r *gamesRepo) Insert(tx *sql.Tx, outcome games.Outcome) (games.Game, error) {
	g := games.Game{Outcome: outcome}

	err := tx.QueryRow(`
		INSERT INTO games (outcome)
		VALUES ($1)
		RETURNING id, created_at
	`, string(outcome)).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return games.Game{}, fmt.Errorf("insert game: %w", err)
	}

	return g, nil
}
