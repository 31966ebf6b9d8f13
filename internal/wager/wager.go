package wager

import (
	"encoding/json"
	"time"
)

// Game identifies a supported game type. The value doubles as the
// discriminant for the per-game state union stored on the wager row.
type Game string

const (
	GameDice        Game = "dice"
	GameKeno        Game = "keno"
	GameMines       Game = "mines"
	GameChickenRoad Game = "chickenroad"
	GameRoulette    Game = "roulette"
	GameBlackjack   Game = "blackjack"
	GamePlinko      Game = "plinko"
	GameLimbo       Game = "limbo"
)

// AllGames lists every supported game type.
func AllGames() []Game {
	return []Game{
		GameDice, GameKeno, GameMines, GameChickenRoad,
		GameRoulette, GameBlackjack, GamePlinko, GameLimbo,
	}
}

// Valid reports whether g names a supported game.
func (g Game) Valid() bool {
	for _, known := range AllGames() {
		if g == known {
			return true
		}
	}
	return false
}

// MultiRound reports whether the game settles over several rounds
// (reveal/hop/action) rather than in a single resolution.
func (g Game) MultiRound() bool {
	switch g {
	case GameMines, GameChickenRoad, GameBlackjack:
		return true
	default:
		return false
	}
}

// Wager is one placed bet. BetAmountCents is fixed at creation;
// PayoutAmountCents is written exactly once, when Active flips to false.
type Wager struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Game              Game            `json:"game"`
	BetAmountCents    int64           `json:"bet_amount_cents"`
	PayoutAmountCents int64           `json:"payout_amount_cents"`
	Active            bool            `json:"active"`
	NonceUsed         uint64          `json:"nonce_used"`
	SeedStateID       string          `json:"seed_state_id"`
	State             json.RawMessage `json:"state,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
}
