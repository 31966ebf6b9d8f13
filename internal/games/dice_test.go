package games

import (
	"errors"
	"testing"

	"github.com/openwager/engine/internal/wager"
)

func TestDiceResolve(t *testing.T) {
	game := &DiceGame{HouseEdge: 0.01}

	cases := []struct {
		name       string
		float      float64
		target     float64
		condition  string
		wantRoll   float64
		wantWin    bool
		wantPayout float64
	}{
		{"above wins", 0.75, 50, "above", 75.00, true, 1.98},
		{"above loses", 0.25, 50, "above", 25.00, false, 0},
		{"below wins", 0.25, 50, "below", 25.00, true, 1.98},
		{"below loses", 0.75, 50, "below", 75.00, false, 0},
		{"exact target is a loss", 0.49995, 50, "above", 50.00, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := Params{"target": tc.target, "condition": tc.condition}
			out, err := game.Resolve([]float64{tc.float}, params)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			state := out.State.(DiceState)
			if state.Win != tc.wantWin {
				t.Errorf("expected win=%t, got %t (roll %v)", tc.wantWin, state.Win, state.Roll)
			}
			if out.Multiplier != tc.wantPayout {
				t.Errorf("expected multiplier %v, got %v", tc.wantPayout, out.Multiplier)
			}
			if !out.Final {
				t.Error("dice outcome must be final")
			}
		})
	}
}

func TestDiceRollMapping(t *testing.T) {
	game := &DiceGame{HouseEdge: 0.01}

	// floor(f * 10001) / 100 gives 10,001 discrete rolls from 0.00 to 100.00.
	cases := []struct {
		float float64
		want  float64
	}{
		{0, 0},
		{0.5, 50.00},
		{0.999999, 100.00},
	}
	for _, tc := range cases {
		out, err := game.Resolve([]float64{tc.float}, Params{"target": 50.0, "condition": "above"})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if roll := out.State.(DiceState).Roll; roll != tc.want {
			t.Errorf("float %v: expected roll %v, got %v", tc.float, tc.want, roll)
		}
	}
}

func TestDiceMultiplier(t *testing.T) {
	game := &DiceGame{HouseEdge: 0.01}

	cases := []struct {
		target    float64
		condition string
		want      float64
	}{
		{50, "above", 1.98},
		{50, "below", 1.98},
		{90, "above", 9.9},
		{10, "below", 9.9},
		{99, "above", 99},
	}
	for _, tc := range cases {
		if got := game.Multiplier(tc.target, tc.condition); got != tc.want {
			t.Errorf("Multiplier(%v, %s): expected %v, got %v", tc.target, tc.condition, tc.want, got)
		}
	}
}

func TestDiceInvalidParams(t *testing.T) {
	game := &DiceGame{HouseEdge: 0.01}

	cases := []struct {
		name   string
		params Params
	}{
		{"missing target", Params{"condition": "above"}},
		{"target too low", Params{"target": 0.001, "condition": "above"}},
		{"target too high", Params{"target": 100.0, "condition": "above"}},
		{"bad condition", Params{"target": 50.0, "condition": "sideways"}},
		{"missing condition", Params{"target": 50.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := game.Resolve([]float64{0.5}, tc.params)
			if !errors.Is(err, wager.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}
