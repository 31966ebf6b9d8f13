package games

import (
	"math"

	"github.com/openwager/engine/internal/wager"
)

// DiceGame rolls a two-decimal value in [0.00, 100.00] and wins when it
// falls on the chosen side of the target.
type DiceGame struct {
	HouseEdge float64
}

const (
	diceMinTarget = 0.01
	diceMaxTarget = 99.99

	DiceConditionAbove = "above"
	DiceConditionBelow = "below"
)

// DiceState is the settled outcome snapshot.
type DiceState struct {
	Roll       float64 `json:"roll"`
	Target     float64 `json:"target"`
	Condition  string  `json:"condition"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
}

func (g *DiceGame) Spec() Spec {
	return Spec{ID: wager.GameDice, Name: "Dice"}
}

func (g *DiceGame) FloatCount(params Params) int {
	return 1
}

// Multiplier returns the payout for a winning roll: the house-edge
// adjusted inverse of the win probability, rounded to 4 decimals.
func (g *DiceGame) Multiplier(target float64, condition string) float64 {
	chance := target / 100
	if condition == DiceConditionAbove {
		chance = (100 - target) / 100
	}
	return round4((1 - g.HouseEdge) / chance)
}

func (g *DiceGame) Resolve(floats []float64, params Params) (Outcome, error) {
	target, condition, err := diceParams(params)
	if err != nil {
		return Outcome{}, err
	}

	// 10,001 discrete outcomes: 0.00, 0.01, ..., 100.00.
	roll := math.Floor(floats[0]*10001) / 100

	win := roll < target
	if condition == DiceConditionAbove {
		win = roll > target
	}

	multiplier := 0.0
	if win {
		multiplier = g.Multiplier(target, condition)
	}

	state := DiceState{
		Roll:       roll,
		Target:     target,
		Condition:  condition,
		Win:        win,
		Multiplier: multiplier,
	}
	return Outcome{
		State:      state,
		Multiplier: multiplier,
		Final:      true,
		Details:    map[string]any{"roll": roll, "target": target, "condition": condition},
	}, nil
}

func diceParams(params Params) (float64, string, error) {
	target, err := paramFloat(params, "target")
	if err != nil {
		return 0, "", err
	}
	if target < diceMinTarget || target > diceMaxTarget {
		return 0, "", wager.InvalidParamsf("dice target must be between %v and %v, got %v", diceMinTarget, diceMaxTarget, target)
	}

	condition, err := paramString(params, "condition")
	if err != nil {
		return 0, "", err
	}
	switch condition {
	case DiceConditionAbove, DiceConditionBelow:
		return target, condition, nil
	default:
		return 0, "", wager.InvalidParamsf("dice condition must be %q or %q, got %q", DiceConditionAbove, DiceConditionBelow, condition)
	}
}
