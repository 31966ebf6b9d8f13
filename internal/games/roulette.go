package games

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/openwager/engine/internal/wager"
)

// RouletteGame implements European roulette (single zero). A spin draws
// one pocket in [0, 36]; every bet on the layout is validated against
// the fixed table of legal number groupings before any randomness is
// consumed.
type RouletteGame struct {
	Payouts map[string]float64
}

// Bet kinds. Inside bets carry explicit numbers; column and dozen carry
// an index 1-3; the even-money kinds carry nothing.
const (
	RouletteStraight = "straight"
	RouletteSplit    = "split"
	RouletteStreet   = "street"
	RouletteCorner   = "corner"
	RouletteSixLine  = "sixline"
	RouletteColumn   = "column"
	RouletteDozen    = "dozen"
	RouletteRed      = "red"
	RouletteBlack    = "black"
	RouletteEven     = "even"
	RouletteOdd      = "odd"
	RouletteLow      = "low"
	RouletteHigh     = "high"
)

// RoulettePayouts maps bet kind to total-return multiplier (stake
// included): straight pays 35:1, so a win returns 36x the stake.
var RoulettePayouts = map[string]float64{
	RouletteStraight: 36,
	RouletteSplit:    18,
	RouletteStreet:   12,
	RouletteCorner:   9,
	RouletteSixLine:  6,
	RouletteColumn:   3,
	RouletteDozen:    3,
	RouletteRed:      2,
	RouletteBlack:    2,
	RouletteEven:     2,
	RouletteOdd:      2,
	RouletteLow:      2,
	RouletteHigh:     2,
}

var rouletteRedNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// Legal inside groupings, keyed by kind then by canonical number-set
// key. Built once from the wheel layout (rows of three, 1-36, plus the
// zero splits).
var rouletteLegalGroups = buildRouletteGroups()

func buildRouletteGroups() map[string]map[string]bool {
	groups := map[string]map[string]bool{
		RouletteSplit:   {},
		RouletteStreet:  {},
		RouletteCorner:  {},
		RouletteSixLine: {},
	}

	add := func(kind string, nums ...int) {
		groups[kind][groupKey(nums)] = true
	}

	for n := 1; n <= 36; n++ {
		if n%3 != 0 {
			add(RouletteSplit, n, n+1) // horizontal
		}
		if n <= 33 {
			add(RouletteSplit, n, n+3) // vertical
		}
		if n%3 != 0 && n <= 32 {
			add(RouletteCorner, n, n+1, n+3, n+4)
		}
	}
	for z := 1; z <= 3; z++ {
		add(RouletteSplit, 0, z)
	}
	for r := 0; r < 12; r++ {
		add(RouletteStreet, 3*r+1, 3*r+2, 3*r+3)
		if r < 11 {
			add(RouletteSixLine, 3*r+1, 3*r+2, 3*r+3, 3*r+4, 3*r+5, 3*r+6)
		}
	}
	return groups
}

func groupKey(nums []int) string {
	sorted := make([]int, len(nums))
	copy(sorted, nums)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

// RouletteBet is one validated bet on the layout.
type RouletteBet struct {
	Kind       string `json:"kind"`
	Numbers    []int  `json:"numbers,omitempty"`
	Index      int    `json:"index,omitempty"`
	StakeCents int64  `json:"stake_cents"`
}

// RouletteBetResult is a bet plus its settled winnings.
type RouletteBetResult struct {
	RouletteBet
	Win         bool  `json:"win"`
	PayoutCents int64 `json:"payout_cents"`
}

// RouletteState is the settled outcome snapshot.
type RouletteState struct {
	Pocket      int                 `json:"pocket"`
	Color       string              `json:"color"`
	Bets        []RouletteBetResult `json:"bets"`
	StakeCents  int64               `json:"stake_cents"`
	PayoutCents int64               `json:"payout_cents"`
}

func (g *RouletteGame) Spec() Spec {
	return Spec{ID: wager.GameRoulette, Name: "Roulette"}
}

func (g *RouletteGame) FloatCount(params Params) int {
	return 1
}

func (g *RouletteGame) Resolve(floats []float64, params Params) (Outcome, error) {
	bets, totalStake, err := g.parseBets(params)
	if err != nil {
		return Outcome{}, err
	}

	pocket := int(math.Floor(floats[0] * 37))
	if pocket > 36 {
		pocket = 36
	}

	var totalPayout int64
	results := make([]RouletteBetResult, len(bets))
	for i, bet := range bets {
		win := g.betWins(bet, pocket)
		var payout int64
		if win {
			payout = int64(math.Round(float64(bet.StakeCents) * g.Payouts[bet.Kind]))
		}
		totalPayout += payout
		results[i] = RouletteBetResult{RouletteBet: bet, Win: win, PayoutCents: payout}
	}

	state := RouletteState{
		Pocket:      pocket,
		Color:       rouletteColor(pocket),
		Bets:        results,
		StakeCents:  totalStake,
		PayoutCents: totalPayout,
	}

	// Payout is an exact integer sum; the multiplier just re-expresses
	// it against the total stake so the ledger's rounding recovers it.
	multiplier := float64(totalPayout) / float64(totalStake)

	return Outcome{
		State:      state,
		Multiplier: multiplier,
		Final:      true,
		Details:    map[string]any{"pocket": pocket, "color": state.Color},
	}, nil
}

// TotalStakeCents sums the per-bet stakes so placement can reject a
// layout whose declared stakes do not match the debited bet amount.
func (g *RouletteGame) TotalStakeCents(params Params) (int64, error) {
	_, total, err := g.parseBets(params)
	return total, err
}

func (g *RouletteGame) parseBets(params Params) ([]RouletteBet, int64, error) {
	raw, ok := params["bets"]
	if !ok {
		return nil, 0, wager.InvalidParamsf("missing %q", "bets")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, 0, wager.InvalidParamsf("%q must be an array, got %T", "bets", raw)
	}
	if len(list) == 0 {
		return nil, 0, wager.InvalidParamsf("roulette requires at least one bet")
	}

	bets := make([]RouletteBet, 0, len(list))
	var totalStake int64
	for i, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, 0, wager.InvalidParamsf("bets[%d] must be an object, got %T", i, e)
		}
		bet, err := g.parseBet(Params(obj))
		if err != nil {
			return nil, 0, fmt.Errorf("bets[%d]: %w", i, err)
		}
		bets = append(bets, bet)
		totalStake += bet.StakeCents
	}
	return bets, totalStake, nil
}

func (g *RouletteGame) parseBet(obj Params) (RouletteBet, error) {
	kind, err := paramString(obj, "kind")
	if err != nil {
		return RouletteBet{}, err
	}
	if _, ok := g.Payouts[kind]; !ok {
		return RouletteBet{}, wager.InvalidParamsf("unknown bet kind %q", kind)
	}

	stake, err := paramInt(obj, "stakeCents")
	if err != nil {
		return RouletteBet{}, err
	}
	if stake <= 0 {
		return RouletteBet{}, wager.InvalidParamsf("bet stake must be positive, got %d", stake)
	}

	bet := RouletteBet{Kind: kind, StakeCents: int64(stake)}

	switch kind {
	case RouletteStraight, RouletteSplit, RouletteStreet, RouletteCorner, RouletteSixLine:
		nums, err := paramIntSlice(obj, "numbers")
		if err != nil {
			return RouletteBet{}, err
		}
		if err := validateInsideBet(kind, nums); err != nil {
			return RouletteBet{}, err
		}
		bet.Numbers = nums
	case RouletteColumn, RouletteDozen:
		index, err := paramInt(obj, "index")
		if err != nil {
			return RouletteBet{}, err
		}
		if index < 1 || index > 3 {
			return RouletteBet{}, wager.InvalidParamsf("%s index must be 1-3, got %d", kind, index)
		}
		bet.Index = index
	}
	return bet, nil
}

func validateInsideBet(kind string, nums []int) error {
	for _, n := range nums {
		if n < 0 || n > 36 {
			return wager.InvalidParamsf("number %d is outside 0-36", n)
		}
	}
	if kind == RouletteStraight {
		if len(nums) != 1 {
			return wager.InvalidParamsf("straight bet must cover exactly one number")
		}
		return nil
	}
	if !rouletteLegalGroups[kind][groupKey(nums)] {
		return wager.InvalidParamsf("%s bet on %v is not a legal grouping", kind, nums)
	}
	return nil
}

func (g *RouletteGame) betWins(bet RouletteBet, pocket int) bool {
	switch bet.Kind {
	case RouletteStraight, RouletteSplit, RouletteStreet, RouletteCorner, RouletteSixLine:
		for _, n := range bet.Numbers {
			if n == pocket {
				return true
			}
		}
		return false
	case RouletteColumn:
		return pocket != 0 && (pocket-bet.Index)%3 == 0
	case RouletteDozen:
		return pocket >= (bet.Index-1)*12+1 && pocket <= bet.Index*12
	case RouletteRed:
		return rouletteRedNumbers[pocket]
	case RouletteBlack:
		return pocket != 0 && !rouletteRedNumbers[pocket]
	case RouletteEven:
		return pocket != 0 && pocket%2 == 0
	case RouletteOdd:
		return pocket%2 == 1
	case RouletteLow:
		return pocket >= 1 && pocket <= 18
	case RouletteHigh:
		return pocket >= 19
	default:
		return false
	}
}

func rouletteColor(pocket int) string {
	switch {
	case pocket == 0:
		return "green"
	case rouletteRedNumbers[pocket]:
		return "red"
	default:
		return "black"
	}
}
