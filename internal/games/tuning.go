package games

// Tuning holds the business parameters of the engines: house edges and
// payout tables. Zero values fall back to the defaults below, so a
// Tuning{} literal gives the stock configuration.
type Tuning struct {
	// HouseEdge applies to dice, limbo, and mines payouts.
	HouseEdge float64

	// ChickenRTP is the return-to-player constant of chicken-road:
	// multiplier after n hops = round2(ChickenRTP / P(reach n)).
	ChickenRTP float64

	// BlackjackBonus is the extra payout for a natural: a two-card 21
	// pays 1 + BlackjackBonus times the hand stake on top of the stake
	// itself (1.5 -> 2.5x total).
	BlackjackBonus float64

	// Limbo targets are clamped into [LimboMinTarget, LimboMaxTarget]
	// before use.
	LimboMinTarget float64
	LimboMaxTarget float64

	// Payout tables; nil selects the built-in tables.
	KenoPayouts     map[string]map[int]map[int]float64
	PlinkoPayouts   map[string]map[int][]float64
	RoulettePayouts map[string]float64
}

const (
	defaultHouseEdge      = 0.01
	defaultChickenRTP     = 0.98
	defaultBlackjackBonus = 1.5
	defaultLimboMinTarget = 1.01
	defaultLimboMaxTarget = 1000000
)

// DefaultTuning returns the stock configuration.
func DefaultTuning() Tuning {
	return Tuning{}.withDefaults()
}

func (t Tuning) withDefaults() Tuning {
	if t.HouseEdge <= 0 || t.HouseEdge >= 1 {
		t.HouseEdge = defaultHouseEdge
	}
	if t.ChickenRTP <= 0 || t.ChickenRTP >= 1 {
		t.ChickenRTP = defaultChickenRTP
	}
	if t.BlackjackBonus <= 0 {
		t.BlackjackBonus = defaultBlackjackBonus
	}
	if t.LimboMinTarget <= 1 {
		t.LimboMinTarget = defaultLimboMinTarget
	}
	if t.LimboMaxTarget <= t.LimboMinTarget {
		t.LimboMaxTarget = defaultLimboMaxTarget
	}
	if t.KenoPayouts == nil {
		t.KenoPayouts = KenoPayouts
	}
	if t.PlinkoPayouts == nil {
		t.PlinkoPayouts = PlinkoPayouts
	}
	if t.RoulettePayouts == nil {
		t.RoulettePayouts = RoulettePayouts
	}
	return t
}
