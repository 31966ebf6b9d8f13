package games

import (
	"github.com/openwager/engine/internal/wager"
)

// PlinkoGame drops a token through a row of binary pegs: one float per
// row, >= 0.5 goes right. The final bucket index is the count of rights
// and selects the multiplier from the risk tier's table.
type PlinkoGame struct {
	Payouts map[string]map[int][]float64
}

const plinkoDefaultRows = 16

// PlinkoState is the settled outcome snapshot.
type PlinkoState struct {
	Rows       int      `json:"rows"`
	Risk       string   `json:"risk"`
	Path       []string `json:"path"`
	Bucket     int      `json:"bucket"`
	Multiplier float64  `json:"multiplier"`
}

func (g *PlinkoGame) Spec() Spec {
	return Spec{ID: wager.GamePlinko, Name: "Plinko"}
}

func (g *PlinkoGame) FloatCount(params Params) int {
	rows, _, err := g.params(params)
	if err != nil {
		return plinkoDefaultRows
	}
	return rows
}

func (g *PlinkoGame) Resolve(floats []float64, params Params) (Outcome, error) {
	rows, risk, err := g.params(params)
	if err != nil {
		return Outcome{}, err
	}

	table := g.Payouts[risk][rows]
	path := make([]string, rows)
	bucket := 0
	for i := 0; i < rows; i++ {
		if floats[i] >= 0.5 {
			bucket++
			path[i] = "right"
		} else {
			path[i] = "left"
		}
	}

	multiplier := table[bucket]

	state := PlinkoState{
		Rows:       rows,
		Risk:       risk,
		Path:       path,
		Bucket:     bucket,
		Multiplier: multiplier,
	}
	return Outcome{
		State:      state,
		Multiplier: multiplier,
		Final:      true,
		Details:    map[string]any{"bucket": bucket, "multiplier": multiplier},
	}, nil
}

func (g *PlinkoGame) params(params Params) (int, string, error) {
	rows, err := paramIntDefault(params, "rows", plinkoDefaultRows)
	if err != nil {
		return 0, "", err
	}
	risk, err := paramStringDefault(params, "risk", "medium")
	if err != nil {
		return 0, "", err
	}
	riskTables, ok := g.Payouts[risk]
	if !ok {
		return 0, "", wager.InvalidParamsf("unknown plinko risk %q", risk)
	}
	if _, ok := riskTables[rows]; !ok {
		return 0, "", wager.InvalidParamsf("no plinko table for risk %q with %d rows", risk, rows)
	}
	return rows, risk, nil
}
