package games

import (
	"encoding/json"
	"math"

	"github.com/openwager/engine/internal/wager"
)

// Params carries game parameters as decoded from JSON, so numbers
// arrive as float64 and arrays as []any.
type Params map[string]any

// Outcome is what an engine produces for one resolution or round.
// Multiplier semantics: payout cents = round-half-up(bet * Multiplier);
// 0 means total loss. State is the game-specific snapshot that the
// persistence layer serializes onto the wager row.
type Outcome struct {
	State      any
	Multiplier float64
	Final      bool

	// ExtraBetMultiple is an additional stake, in multiples of the
	// original bet, that must be debited before this round applies
	// (blackjack double, split, insurance). Zero for everything else.
	ExtraBetMultiple float64

	Details map[string]any
}

// Spec is game metadata for listings and routing.
type Spec struct {
	ID         wager.Game `json:"id"`
	Name       string     `json:"name"`
	MultiRound bool       `json:"multi_round"`
}

// Game is a pure outcome engine. Resolve consumes floats drawn for the
// wager's nonce and produces the initial (for multi-round games) or
// final (for single-shot games) outcome.
type Game interface {
	Spec() Spec
	FloatCount(params Params) int
	Resolve(floats []float64, params Params) (Outcome, error)
}

// RoundGame is a multi-round engine: a state machine advanced one
// round at a time until a terminal outcome or a cash-out.
type RoundGame interface {
	Game

	// Advance applies one round action to the stored state. The float
	// slice is the same sequence Resolve saw, regenerated from the
	// wager's seeds and nonce.
	Advance(state json.RawMessage, floats []float64, params Params) (Outcome, error)

	// CashOut forces settlement at the state's current value. The float
	// slice is the wager's regenerated sequence; games whose forced
	// settlement needs further draws (the blackjack dealer) consume
	// them from the stored cursor onward.
	CashOut(state json.RawMessage, floats []float64) (Outcome, error)
}

// StakeValidator is implemented by games whose parameters carry their
// own money, so placement can check the declared stakes against the
// amount actually debited from the balance.
type StakeValidator interface {
	TotalStakeCents(params Params) (int64, error)
}

// Registry holds the constructed engines. Engines are built, not
// init-registered, so payout tuning stays injectable.
type Registry struct {
	byID  map[wager.Game]Game
	order []wager.Game
}

// NewRegistry constructs every engine with the given tuning.
func NewRegistry(tn Tuning) *Registry {
	tn = tn.withDefaults()

	r := &Registry{byID: make(map[wager.Game]Game)}
	for _, g := range []Game{
		&DiceGame{HouseEdge: tn.HouseEdge},
		&KenoGame{Payouts: tn.KenoPayouts},
		&MinesGame{HouseEdge: tn.HouseEdge},
		&ChickenRoadGame{RTP: tn.ChickenRTP},
		&RouletteGame{Payouts: tn.RoulettePayouts},
		&BlackjackGame{Bonus: tn.BlackjackBonus},
		&PlinkoGame{Payouts: tn.PlinkoPayouts},
		&LimboGame{HouseEdge: tn.HouseEdge, MinTarget: tn.LimboMinTarget, MaxTarget: tn.LimboMaxTarget},
	} {
		id := g.Spec().ID
		r.byID[id] = g
		r.order = append(r.order, id)
	}
	return r
}

// Get returns the engine for a game type.
func (r *Registry) Get(id wager.Game) (Game, bool) {
	g, ok := r.byID[id]
	return g, ok
}

// Round returns the engine if the game is multi-round.
func (r *Registry) Round(id wager.Game) (RoundGame, bool) {
	g, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	rg, ok := g.(RoundGame)
	return rg, ok
}

// List returns the specs of all registered games in a stable order.
func (r *Registry) List() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, id := range r.order {
		specs = append(specs, r.byID[id].Spec())
	}
	return specs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// drawFromPool implements the without-replacement selection shared by
// mines and keno: floor(f * len(pool)) picks the element, which is then
// spliced out in order (matching the verification output of the
// original JS implementation).
func drawFromPool(pool []int, f float64) (int, []int) {
	idx := int(math.Floor(f * float64(len(pool))))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	picked := pool[idx]
	return picked, append(pool[:idx], pool[idx+1:]...)
}
