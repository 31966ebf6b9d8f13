package games

import (
	"encoding/json"

	"github.com/openwager/engine/internal/wager"
)

// BlackjackGame is a state machine over one or two player hands and a
// dealer hand. Every card comes from the wager's float sequence in deal
// order, so a settled game is reproducible from the seeds and nonce.
//
// Rules: dealer peeks with a ten-value up card, stands on all 17s;
// double on any first two cards; one split (aces get one card each);
// insurance offered against an ace up card; a natural pays the
// configured bonus and only on an unsplit two-card hand.
type BlackjackGame struct {
	Bonus float64
}

// 52 floats cover the longest possible game with a wide margin.
const blackjackFloatCount = 52

// Round actions. Deal is implicit in wager placement.
const (
	BlackjackHit       = "hit"
	BlackjackStand     = "stand"
	BlackjackDouble    = "double"
	BlackjackSplit     = "split"
	BlackjackInsurance = "insurance"
)

// BlackjackHand is one player hand. BetUnits is the hand's stake in
// multiples of the original bet (2 after a double).
type BlackjackHand struct {
	Cards     []Card  `json:"cards"`
	BetUnits  float64 `json:"bet_units"`
	Stand     bool    `json:"stand"`
	Bust      bool    `json:"bust"`
	Doubled   bool    `json:"doubled"`
	FromSplit bool    `json:"from_split"`
}

func (h *BlackjackHand) done() bool {
	return h.Stand || h.Bust
}

// BlackjackState is the per-round state snapshot. Cursor counts floats
// (cards) consumed so far.
type BlackjackState struct {
	Cursor         int             `json:"cursor"`
	Hands          []BlackjackHand `json:"hands"`
	Active         int             `json:"active"`
	Dealer         []Card          `json:"dealer"`
	InsuranceUnits float64         `json:"insurance_units"`
	Settled        bool            `json:"settled"`
	Multiplier     float64         `json:"multiplier"`
}

func (st *BlackjackState) draw(floats []float64) Card {
	c := cardFromFloat(floats[st.Cursor])
	st.Cursor++
	return c
}

func (g *BlackjackGame) Spec() Spec {
	return Spec{ID: wager.GameBlackjack, Name: "Blackjack", MultiRound: true}
}

func (g *BlackjackGame) FloatCount(params Params) int {
	return blackjackFloatCount
}

// Resolve deals the opening hands: player, dealer, player, dealer.
func (g *BlackjackGame) Resolve(floats []float64, params Params) (Outcome, error) {
	st := BlackjackState{Active: 0}
	p0 := st.draw(floats)
	d0 := st.draw(floats)
	p1 := st.draw(floats)
	d1 := st.draw(floats)

	st.Hands = []BlackjackHand{{Cards: []Card{p0, p1}, BetUnits: 1}}
	st.Dealer = []Card{d0, d1}

	playerNatural := handValue(st.Hands[0].Cards) == 21
	dealerNatural := handValue(st.Dealer) == 21

	switch {
	case playerNatural && dealerNatural:
		return g.settle(&st), nil
	case playerNatural && d0.Rank != "A":
		return g.settle(&st), nil
	case dealerNatural && d0.Rank != "A":
		// Ten-value up card: dealer peeks and the game ends at once.
		return g.settle(&st), nil
	}
	// Ace up: the hand continues so insurance can be taken; a dealer
	// natural is resolved at settlement.

	return Outcome{
		State:      st,
		Multiplier: 0,
		Details:    g.details(&st),
	}, nil
}

func (g *BlackjackGame) Advance(raw json.RawMessage, floats []float64, params Params) (Outcome, error) {
	var st BlackjackState
	if err := json.Unmarshal(raw, &st); err != nil {
		return Outcome{}, err
	}
	if st.Settled {
		return Outcome{}, wager.ErrWagerInactive
	}

	action, err := paramString(params, "action")
	if err != nil {
		return Outcome{}, err
	}

	var extra float64
	hand := &st.Hands[st.Active]

	switch action {
	case BlackjackHit:
		hand.Cards = append(hand.Cards, st.draw(floats))
		g.closeIfDone(hand)

	case BlackjackStand:
		hand.Stand = true

	case BlackjackDouble:
		if len(hand.Cards) != 2 {
			return Outcome{}, wager.InvalidParamsf("double is only available on the first two cards")
		}
		extra = 1
		hand.BetUnits = 2
		hand.Doubled = true
		hand.Cards = append(hand.Cards, st.draw(floats))
		if handValue(hand.Cards) > 21 {
			hand.Bust = true
		}
		hand.Stand = true

	case BlackjackSplit:
		if len(st.Hands) != 1 || len(hand.Cards) != 2 {
			return Outcome{}, wager.InvalidParamsf("split is only available on an unsplit first two cards")
		}
		if blackjackCardValue(hand.Cards[0].Rank) != blackjackCardValue(hand.Cards[1].Rank) {
			return Outcome{}, wager.InvalidParamsf("split requires two cards of equal value")
		}
		extra = 1
		splitAces := hand.Cards[0].Rank == "A"
		first := BlackjackHand{Cards: []Card{hand.Cards[0], st.draw(floats)}, BetUnits: 1, FromSplit: true}
		second := BlackjackHand{Cards: []Card{hand.Cards[1], st.draw(floats)}, BetUnits: 1, FromSplit: true}
		if splitAces {
			// Split aces receive one card each and stand.
			first.Stand = true
			second.Stand = true
		} else {
			g.closeIfDone(&first)
			g.closeIfDone(&second)
		}
		st.Hands = []BlackjackHand{first, second}
		st.Active = 0

	case BlackjackInsurance:
		if st.Dealer[0].Rank != "A" {
			return Outcome{}, wager.InvalidParamsf("insurance requires a dealer ace")
		}
		if st.InsuranceUnits > 0 {
			return Outcome{}, wager.InvalidParamsf("insurance already taken")
		}
		if len(st.Hands) != 1 || len(st.Hands[0].Cards) != 2 {
			return Outcome{}, wager.InvalidParamsf("insurance is only available before acting")
		}
		extra = 0.5
		st.InsuranceUnits = 0.5

	default:
		return Outcome{}, wager.InvalidParamsf("unknown blackjack action %q", action)
	}

	for st.Active < len(st.Hands) && st.Hands[st.Active].done() {
		st.Active++
	}
	if st.Active >= len(st.Hands) {
		g.dealerPlay(&st, floats)
		out := g.settle(&st)
		out.ExtraBetMultiple = extra
		return out, nil
	}

	return Outcome{
		State:            st,
		Multiplier:       0,
		ExtraBetMultiple: extra,
		Details:          g.details(&st),
	}, nil
}

// CashOut forces settlement by standing every open hand and playing the
// dealer out. Dealer draws come from the same float sequence the deal
// consumed, continuing at the stored cursor.
func (g *BlackjackGame) CashOut(raw json.RawMessage, floats []float64) (Outcome, error) {
	var st BlackjackState
	if err := json.Unmarshal(raw, &st); err != nil {
		return Outcome{}, err
	}
	if st.Settled {
		return Outcome{}, wager.ErrWagerInactive
	}
	for i := range st.Hands {
		if !st.Hands[i].done() {
			st.Hands[i].Stand = true
		}
	}
	g.dealerPlay(&st, floats)
	return g.settle(&st), nil
}

// closeIfDone auto-stands a hand at 21 and flags a bust over 21.
func (g *BlackjackGame) closeIfDone(hand *BlackjackHand) {
	v := handValue(hand.Cards)
	if v > 21 {
		hand.Bust = true
	} else if v == 21 {
		hand.Stand = true
	}
}

func (g *BlackjackGame) dealerPlay(st *BlackjackState, floats []float64) {
	// Dealer only draws when at least one hand is live.
	if !g.anyLiveHand(st) {
		return
	}
	for handValue(st.Dealer) < 17 {
		st.Dealer = append(st.Dealer, st.draw(floats))
	}
}

func (g *BlackjackGame) anyLiveHand(st *BlackjackState) bool {
	for i := range st.Hands {
		if !st.Hands[i].Bust {
			return true
		}
	}
	return false
}

// settle fixes the final multiplier: per hand, 2x its stake on a win,
// 1x on a push, the natural bonus for an unsplit two-card 21, nothing
// on a loss; insurance pays 2:1 when the dealer holds a natural.
func (g *BlackjackGame) settle(st *BlackjackState) Outcome {
	dealerValue := handValue(st.Dealer)
	dealerNatural := dealerValue == 21 && len(st.Dealer) == 2

	units := 0.0
	for i := range st.Hands {
		hand := &st.Hands[i]
		if hand.Bust {
			continue
		}
		value := handValue(hand.Cards)
		natural := value == 21 && len(hand.Cards) == 2 && !hand.FromSplit && !hand.Doubled

		switch {
		case natural && dealerNatural:
			units += hand.BetUnits
		case natural:
			units += hand.BetUnits * (1 + g.Bonus)
		case dealerNatural:
			// loss
		case dealerValue > 21 || value > dealerValue:
			units += hand.BetUnits * 2
		case value == dealerValue:
			units += hand.BetUnits
		}
	}
	if dealerNatural {
		units += st.InsuranceUnits * 3
	}

	st.Settled = true
	st.Active = len(st.Hands)
	st.Multiplier = units

	return Outcome{
		State:      *st,
		Multiplier: units,
		Final:      true,
		Details:    g.details(st),
	}
}

func (g *BlackjackGame) details(st *BlackjackState) map[string]any {
	player := make([]string, 0, 4)
	for _, c := range st.Hands[0].Cards {
		player = append(player, c.String())
	}
	dealer := make([]string, 0, 4)
	for _, c := range st.Dealer {
		dealer = append(dealer, c.String())
	}
	return map[string]any{
		"player_cards": player,
		"dealer_cards": dealer,
		"dealer_value": handValue(st.Dealer),
		"hands":        len(st.Hands),
		"settled":      st.Settled,
	}
}
