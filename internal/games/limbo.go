package games

import (
	"github.com/openwager/engine/internal/wager"
)

// LimboGame draws a single roll and wins when it lands at or under the
// win chance implied by the chosen target multiplier.
type LimboGame struct {
	HouseEdge float64
	MinTarget float64
	MaxTarget float64
}

// Comparison slack for roll <= winChance; 1/target is not always
// exactly representable.
const limboTolerance = 1e-9

// LimboState is the settled outcome snapshot.
type LimboState struct {
	Roll       float64 `json:"roll"`
	Target     float64 `json:"target"`
	WinChance  float64 `json:"win_chance"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
}

func (g *LimboGame) Spec() Spec {
	return Spec{ID: wager.GameLimbo, Name: "Limbo"}
}

func (g *LimboGame) FloatCount(params Params) int {
	return 1
}

func (g *LimboGame) Resolve(floats []float64, params Params) (Outcome, error) {
	target, err := paramFloat(params, "target")
	if err != nil {
		return Outcome{}, err
	}
	if target <= 1 {
		return Outcome{}, wager.InvalidParamsf("limbo target must be greater than 1, got %v", target)
	}

	// Clamp rather than reject: the UI slider and the engine agree on
	// the same effective target.
	if target < g.MinTarget {
		target = g.MinTarget
	}
	if target > g.MaxTarget {
		target = g.MaxTarget
	}

	roll := floats[0]
	winChance := 1 / target
	win := roll <= winChance+limboTolerance

	multiplier := 0.0
	if win {
		multiplier = round4((1 - g.HouseEdge) * target)
	}

	state := LimboState{
		Roll:       roll,
		Target:     target,
		WinChance:  winChance,
		Win:        win,
		Multiplier: multiplier,
	}
	return Outcome{
		State:      state,
		Multiplier: multiplier,
		Final:      true,
		Details:    map[string]any{"roll": roll, "target": target, "win_chance": winChance},
	}, nil
}
