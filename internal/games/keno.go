package games

import (
	"github.com/openwager/engine/internal/wager"
)

// KenoGame draws a fixed count of distinct tiles from the 40-tile board
// and pays out of the risk-tier table by (picks, hits).
type KenoGame struct {
	Payouts map[string]map[int]map[int]float64
}

// KenoState is the settled outcome snapshot.
type KenoState struct {
	Risk       string  `json:"risk"`
	Picks      []int   `json:"picks"`
	Draws      []int   `json:"draws"`
	Hits       int     `json:"hits"`
	Multiplier float64 `json:"multiplier"`
}

func (g *KenoGame) Spec() Spec {
	return Spec{ID: wager.GameKeno, Name: "Keno"}
}

func (g *KenoGame) FloatCount(params Params) int {
	return KenoDrawCount
}

func (g *KenoGame) Resolve(floats []float64, params Params) (Outcome, error) {
	risk, err := paramStringDefault(params, "risk", "medium")
	if err != nil {
		return Outcome{}, err
	}
	if _, ok := g.Payouts[risk]; !ok {
		return Outcome{}, wager.InvalidParamsf("unknown keno risk %q", risk)
	}

	picks, err := paramIntSlice(params, "picks")
	if err != nil {
		return Outcome{}, err
	}
	if len(picks) < KenoMinPicks || len(picks) > KenoMaxPicks {
		return Outcome{}, wager.InvalidParamsf("keno requires between %d and %d picks, got %d", KenoMinPicks, KenoMaxPicks, len(picks))
	}
	seen := make(map[int]bool, len(picks))
	for _, p := range picks {
		if p < 0 || p >= KenoSquares {
			return Outcome{}, wager.InvalidParamsf("pick %d is outside 0-%d", p, KenoSquares-1)
		}
		if seen[p] {
			return Outcome{}, wager.InvalidParamsf("duplicate pick %d", p)
		}
		seen[p] = true
	}

	draws := kenoDraws(floats)

	hits := 0
	drawSet := make(map[int]bool, len(draws))
	for _, d := range draws {
		drawSet[d] = true
	}
	for _, p := range picks {
		if drawSet[p] {
			hits++
		}
	}

	multiplier := g.Payouts[risk][len(picks)][hits]

	state := KenoState{
		Risk:       risk,
		Picks:      picks,
		Draws:      draws,
		Hits:       hits,
		Multiplier: multiplier,
	}
	return Outcome{
		State:      state,
		Multiplier: multiplier,
		Final:      true,
		Details:    map[string]any{"draws": draws, "hits": hits},
	}, nil
}

// kenoDraws selects KenoDrawCount distinct tiles by without-replacement
// pool selection, one float per draw.
func kenoDraws(floats []float64) []int {
	pool := make([]int, KenoSquares)
	for i := range pool {
		pool[i] = i
	}
	draws := make([]int, KenoDrawCount)
	for i := 0; i < KenoDrawCount; i++ {
		draws[i], pool = drawFromPool(pool, floats[i])
	}
	return draws
}
