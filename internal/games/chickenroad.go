package games

import (
	"encoding/json"
	"math"

	"github.com/openwager/engine/internal/wager"
)

// ChickenRoadGame shuffles a 20-tile road of safe tiles and traps and
// advances one hop per round. A trap ends the wager at 0; each safe hop
// raises the multiplier to RTP over the probability of getting there.
type ChickenRoadGame struct {
	RTP float64
}

const (
	chickenDeckSize   = 20
	chickenFloatCount = chickenDeckSize - 1 // one float per Fisher-Yates swap
)

// Trap counts per difficulty tier; safe = 20 - traps.
var chickenDifficulties = map[string]int{
	"easy":      2,
	"medium":    3,
	"hard":      5,
	"daredevil": 10,
}

// ChickenRoadState is the per-round state snapshot. Sequence is the
// shuffled road in hop order: true is a safe tile.
type ChickenRoadState struct {
	Difficulty string  `json:"difficulty"`
	Traps      int     `json:"traps"`
	Safe       int     `json:"safe"`
	Sequence   []bool  `json:"sequence"`
	Position   int     `json:"position"`
	Multiplier float64 `json:"multiplier"`
	TrapAt     *int    `json:"trap_at,omitempty"`
}

func (g *ChickenRoadGame) Spec() Spec {
	return Spec{ID: wager.GameChickenRoad, Name: "Chicken Road", MultiRound: true}
}

func (g *ChickenRoadGame) FloatCount(params Params) int {
	return chickenFloatCount
}

func (g *ChickenRoadGame) Resolve(floats []float64, params Params) (Outcome, error) {
	difficulty, err := paramStringDefault(params, "difficulty", "medium")
	if err != nil {
		return Outcome{}, err
	}
	traps, ok := chickenDifficulties[difficulty]
	if !ok {
		return Outcome{}, wager.InvalidParamsf("unknown chicken-road difficulty %q", difficulty)
	}
	safe := chickenDeckSize - traps

	// Fisher-Yates from the end of the array toward the front, one
	// float per swap, floats consumed in order.
	deck := make([]bool, chickenDeckSize)
	for i := 0; i < safe; i++ {
		deck[i] = true
	}
	for i, k := chickenDeckSize-1, 0; i >= 1; i, k = i-1, k+1 {
		j := int(math.Floor(floats[k] * float64(i+1)))
		if j > i {
			j = i
		}
		deck[i], deck[j] = deck[j], deck[i]
	}

	state := ChickenRoadState{
		Difficulty: difficulty,
		Traps:      traps,
		Safe:       safe,
		Sequence:   deck,
		Multiplier: 1.0,
	}
	return Outcome{
		State:      state,
		Multiplier: state.Multiplier,
		Details:    map[string]any{"difficulty": difficulty, "traps": traps},
	}, nil
}

func (g *ChickenRoadGame) Advance(raw json.RawMessage, floats []float64, params Params) (Outcome, error) {
	var state ChickenRoadState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Outcome{}, err
	}

	hop := state.Position
	if !state.Sequence[hop] {
		state.TrapAt = &hop
		state.Multiplier = 0
		return Outcome{
			State:   state,
			Final:   true,
			Details: map[string]any{"hop": hop, "trap": true},
		}, nil
	}

	state.Position++
	state.Multiplier = g.Multiplier(state.Safe, state.Position)

	// With every safe tile behind it, the next hop is a guaranteed
	// trap; settle at the peak instead.
	final := state.Position == state.Safe

	return Outcome{
		State:      state,
		Multiplier: state.Multiplier,
		Final:      final,
		Details:    map[string]any{"hop": hop, "trap": false, "position": state.Position},
	}, nil
}

func (g *ChickenRoadGame) CashOut(raw json.RawMessage, floats []float64) (Outcome, error) {
	var state ChickenRoadState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: state, Multiplier: state.Multiplier, Final: true}, nil
}

// Multiplier after hops successful hops on a road with the given safe
// count: round2(RTP / P(reach hops)) where
// P = prod_{i=0}^{hops-1} (safe-i)/(20-i).
func (g *ChickenRoadGame) Multiplier(safe, hops int) float64 {
	if hops <= 0 {
		return 1.0
	}
	p := 1.0
	for i := 0; i < hops; i++ {
		p *= float64(safe-i) / float64(chickenDeckSize-i)
	}
	return round2(g.RTP / p)
}
