package games

import (
	"encoding/json"

	"github.com/openwager/engine/internal/wager"
)

// MinesGame plays on a 5x5 grid. Mine positions are fixed at placement
// from the float sequence; each round reveals one tile. A mine ends the
// wager at 0; a safe tile raises the running multiplier.
type MinesGame struct {
	HouseEdge float64
}

const (
	minesTotalTiles = 25
	minesFloatCount = 24 // permutation of 25 positions needs 24 draws
	minesMinCount   = 1

	// 24 mines would leave a single safe tile: the first reveal either
	// loses or exhausts the board, so there is no game to play.
	minesMaxCount = 23

	minesDefaultCount = 3
)

// MinesState is the per-round state snapshot.
type MinesState struct {
	MinesCount int     `json:"mines_count"`
	Mines      []int   `json:"mines"`
	Revealed   []int   `json:"revealed"`
	Multiplier float64 `json:"multiplier"`
	HitMine    *int    `json:"hit_mine,omitempty"`
}

func (g *MinesGame) Spec() Spec {
	return Spec{ID: wager.GameMines, Name: "Mines", MultiRound: true}
}

func (g *MinesGame) FloatCount(params Params) int {
	return minesFloatCount
}

func (g *MinesGame) Resolve(floats []float64, params Params) (Outcome, error) {
	mineCount, err := paramIntDefault(params, "mines", minesDefaultCount)
	if err != nil {
		return Outcome{}, err
	}
	if mineCount < minesMinCount || mineCount > minesMaxCount {
		return Outcome{}, wager.InvalidParamsf("mines count must be between %d and %d, got %d", minesMinCount, minesMaxCount, mineCount)
	}

	// Without-replacement selection over tile positions; the first
	// mineCount picks of the permutation are the mines.
	pool := make([]int, minesTotalTiles)
	for i := range pool {
		pool[i] = i
	}
	mines := make([]int, mineCount)
	for i := 0; i < mineCount; i++ {
		mines[i], pool = drawFromPool(pool, floats[i])
	}

	state := MinesState{
		MinesCount: mineCount,
		Mines:      mines,
		Revealed:   []int{},
		Multiplier: 1.0,
	}
	return Outcome{
		State:      state,
		Multiplier: state.Multiplier,
		Details:    map[string]any{"mines_count": mineCount},
	}, nil
}

func (g *MinesGame) Advance(raw json.RawMessage, floats []float64, params Params) (Outcome, error) {
	var state MinesState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Outcome{}, err
	}

	tile, err := paramInt(params, "tile")
	if err != nil {
		return Outcome{}, err
	}
	if tile < 0 || tile >= minesTotalTiles {
		return Outcome{}, wager.InvalidParamsf("tile must be between 0 and %d, got %d", minesTotalTiles-1, tile)
	}
	for _, r := range state.Revealed {
		if r == tile {
			return Outcome{}, wager.InvalidParamsf("tile %d already revealed", tile)
		}
	}

	for _, m := range state.Mines {
		if m == tile {
			state.HitMine = &tile
			state.Multiplier = 0
			return Outcome{
				State:   state,
				Final:   true,
				Details: map[string]any{"tile": tile, "mine": true},
			}, nil
		}
	}

	state.Revealed = append(state.Revealed, tile)
	reveals := len(state.Revealed)
	state.Multiplier = g.Multiplier(state.MinesCount, reveals)

	// All safe tiles revealed: nothing left to gamble on.
	final := reveals == minesTotalTiles-state.MinesCount

	return Outcome{
		State:      state,
		Multiplier: state.Multiplier,
		Final:      final,
		Details:    map[string]any{"tile": tile, "mine": false, "reveals": reveals},
	}, nil
}

func (g *MinesGame) CashOut(raw json.RawMessage, floats []float64) (Outcome, error) {
	var state MinesState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: state, Multiplier: state.Multiplier, Final: true}, nil
}

// Multiplier after reveals safe tiles with mineCount mines on the
// board: the house-edge adjusted inverse of the survival probability,
// rounded to 2 decimals. Strictly increasing in reveals.
func (g *MinesGame) Multiplier(mineCount, reveals int) float64 {
	if reveals <= 0 {
		return 1.0
	}
	safe := minesTotalTiles - mineCount
	p := 1.0
	for i := 0; i < reveals; i++ {
		p *= float64(safe-i) / float64(minesTotalTiles-i)
	}
	return round2((1 - g.HouseEdge) / p)
}
