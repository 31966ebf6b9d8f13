package games

import (
	"errors"
	"testing"

	"github.com/openwager/engine/internal/wager"
)

func newLimbo() *LimboGame {
	return &LimboGame{HouseEdge: 0.02, MinTarget: 1.01, MaxTarget: 1000000}
}

func TestLimboResolve(t *testing.T) {
	game := newLimbo()

	cases := []struct {
		name       string
		float      float64
		target     float64
		wantWin    bool
		wantPayout float64
	}{
		{"roll under win chance wins", 0.4, 2.0, true, 1.96},
		{"roll at win chance wins", 0.5, 2.0, true, 1.96},
		{"roll over win chance loses", 0.51, 2.0, false, 0},
		{"long shot win", 0.0005, 1000.0, true, 980},
		{"long shot loss", 0.5, 1000.0, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := game.Resolve([]float64{tc.float}, Params{"target": tc.target})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			state := out.State.(LimboState)
			if state.Win != tc.wantWin {
				t.Errorf("expected win=%t, got %t (roll %v, chance %v)", tc.wantWin, state.Win, state.Roll, state.WinChance)
			}
			if out.Multiplier != tc.wantPayout {
				t.Errorf("expected multiplier %v, got %v", tc.wantPayout, out.Multiplier)
			}
			if !out.Final {
				t.Error("limbo outcome must be final")
			}
		})
	}
}

func TestLimboTargetClamping(t *testing.T) {
	game := newLimbo()

	// 1.005 is above the validity floor but below MinTarget; it must be
	// clamped, not rejected.
	out, err := game.Resolve([]float64{0.99}, Params{"target": 1.005})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := out.State.(LimboState).Target; got != 1.01 {
		t.Errorf("expected target clamped to 1.01, got %v", got)
	}

	out, err = game.Resolve([]float64{0.99}, Params{"target": 2000000.0})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := out.State.(LimboState).Target; got != 1000000 {
		t.Errorf("expected target clamped to 1000000, got %v", got)
	}
}

func TestLimboInvalidTarget(t *testing.T) {
	game := newLimbo()

	for _, target := range []float64{1.0, 0.5, 0, -3} {
		_, err := game.Resolve([]float64{0.5}, Params{"target": target})
		if !errors.Is(err, wager.ErrInvalidParameters) {
			t.Errorf("target %v: expected ErrInvalidParameters, got %v", target, err)
		}
	}
	if _, err := game.Resolve([]float64{0.5}, Params{}); !errors.Is(err, wager.ErrInvalidParameters) {
		t.Errorf("missing target: expected ErrInvalidParameters, got %v", err)
	}
}
