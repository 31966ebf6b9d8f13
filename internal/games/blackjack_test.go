package games

import (
	"errors"
	"testing"

	"github.com/openwager/engine/internal/wager"
)

// cardFloat returns a float that maps to the diamond of the given rank.
func cardFloat(rank string) float64 {
	for i, r := range cardRanks {
		if r == rank {
			return (float64(i*4) + 0.5) / 52
		}
	}
	panic("unknown rank " + rank)
}

// bjFloats builds a float sequence dealing the given ranks in order,
// padded out to the full count with low cards.
func bjFloats(ranks ...string) []float64 {
	floats := make([]float64, blackjackFloatCount)
	for i := range floats {
		floats[i] = cardFloat("2")
	}
	for i, r := range ranks {
		floats[i] = cardFloat(r)
	}
	return floats
}

func newBlackjack() *BlackjackGame {
	return &BlackjackGame{Bonus: 1.5}
}

func TestBlackjackDeal(t *testing.T) {
	game := newBlackjack()

	// Deal order is player, dealer, player, dealer.
	out, err := game.Resolve(bjFloats("10", "7", "6", "9"), nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out.Final {
		t.Fatal("16 vs dealer 7 must not settle on the deal")
	}
	state := out.State.(BlackjackState)
	if got := handValue(state.Hands[0].Cards); got != 16 {
		t.Errorf("expected player 16, got %d", got)
	}
	if got := handValue(state.Dealer); got != 16 {
		t.Errorf("expected dealer 16, got %d", got)
	}
	if state.Cursor != 4 {
		t.Errorf("expected 4 cards consumed, got %d", state.Cursor)
	}
}

func TestBlackjackNaturals(t *testing.T) {
	game := newBlackjack()

	cases := []struct {
		name    string
		ranks   []string // p0, d0, p1, d1
		final   bool
		payout  float64
	}{
		{"player natural pays bonus", []string{"A", "5", "K", "9"}, true, 2.5},
		{"both naturals push", []string{"A", "K", "K", "A"}, true, 1},
		{"dealer ten-up natural loses", []string{"10", "K", "6", "A"}, true, 0},
		{"dealer ace-up stays open for insurance", []string{"10", "A", "6", "K"}, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := game.Resolve(bjFloats(tc.ranks...), nil)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if out.Final != tc.final {
				t.Fatalf("expected final=%t, got %t", tc.final, out.Final)
			}
			if out.Final && out.Multiplier != tc.payout {
				t.Errorf("expected multiplier %v, got %v", tc.payout, out.Multiplier)
			}
		})
	}
}

func TestBlackjackHitAndBust(t *testing.T) {
	game := newBlackjack()

	out, err := game.Resolve(bjFloats("10", "7", "6", "9", "K"), nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), bjFloats("10", "7", "6", "9", "K"), Params{"action": "hit"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !next.Final {
		t.Fatal("busting must settle the wager")
	}
	if next.Multiplier != 0 {
		t.Errorf("expected multiplier 0, got %v", next.Multiplier)
	}
}

func TestBlackjackStandDealerBusts(t *testing.T) {
	game := newBlackjack()

	// Player 19 stands; dealer 16 draws a king and busts.
	floats := bjFloats("10", "7", "9", "9", "K")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "stand"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !next.Final {
		t.Fatal("stand must settle the wager")
	}
	if next.Multiplier != 2 {
		t.Errorf("expected multiplier 2 on dealer bust, got %v", next.Multiplier)
	}
}

func TestBlackjackStandDealerWins(t *testing.T) {
	game := newBlackjack()

	// Player 17 stands; dealer 16 draws a 4 for 20.
	floats := bjFloats("10", "7", "7", "9", "4")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "stand"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !next.Final || next.Multiplier != 0 {
		t.Errorf("expected settled loss, got final=%t multiplier=%v", next.Final, next.Multiplier)
	}
}

func TestBlackjackDouble(t *testing.T) {
	game := newBlackjack()

	// Player 11 doubles into a king for 21; dealer 16 draws a 2 for 18.
	floats := bjFloats("5", "7", "6", "9", "K", "2")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "double"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.ExtraBetMultiple != 1 {
		t.Errorf("double must stake one extra bet, got %v", next.ExtraBetMultiple)
	}
	if !next.Final {
		t.Fatal("double draws one card and settles")
	}
	// Doubled hand wins 2x its 2-unit stake.
	if next.Multiplier != 4 {
		t.Errorf("expected multiplier 4, got %v", next.Multiplier)
	}
}

func TestBlackjackDoubleAfterHitRejected(t *testing.T) {
	game := newBlackjack()

	floats := bjFloats("5", "7", "6", "9", "2", "2")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "hit"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if _, err := game.Advance(mustState(t, next.State), floats, Params{"action": "double"}); !errors.Is(err, wager.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters after hitting, got %v", err)
	}
}

func TestBlackjackSplit(t *testing.T) {
	game := newBlackjack()

	// Pair of 8s splits; each hand draws one card.
	floats := bjFloats("8", "7", "8", "9", "3", "2")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "split"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.ExtraBetMultiple != 1 {
		t.Errorf("split must stake one extra bet, got %v", next.ExtraBetMultiple)
	}
	state := next.State.(BlackjackState)
	if len(state.Hands) != 2 {
		t.Fatalf("expected 2 hands after split, got %d", len(state.Hands))
	}
	for i, hand := range state.Hands {
		if len(hand.Cards) != 2 {
			t.Errorf("hand %d: expected 2 cards, got %d", i, len(hand.Cards))
		}
		if !hand.FromSplit {
			t.Errorf("hand %d: expected FromSplit", i)
		}
	}
}

func TestBlackjackSplitUnequalRejected(t *testing.T) {
	game := newBlackjack()

	floats := bjFloats("8", "7", "6", "9")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := game.Advance(mustState(t, out.State), floats, Params{"action": "split"}); !errors.Is(err, wager.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters for unequal split, got %v", err)
	}
}

func TestBlackjackInsurance(t *testing.T) {
	game := newBlackjack()

	// Dealer shows an ace over a ten: natural, resolved after the
	// insurance window.
	floats := bjFloats("10", "A", "6", "K")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out.Final {
		t.Fatal("ace up must leave the insurance window open")
	}

	next, err := game.Advance(mustState(t, out.State), floats, Params{"action": "insurance"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.ExtraBetMultiple != 0.5 {
		t.Errorf("insurance must stake half a bet, got %v", next.ExtraBetMultiple)
	}
	if next.Final {
		t.Fatal("insurance alone must not settle")
	}

	settled, err := game.Advance(mustState(t, next.State), floats, Params{"action": "stand"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !settled.Final {
		t.Fatal("standing must settle the wager")
	}
	// Hand loses to the natural; insurance returns 3x its half-bet stake.
	if settled.Multiplier != 1.5 {
		t.Errorf("expected multiplier 1.5, got %v", settled.Multiplier)
	}
}

func TestBlackjackInsuranceWithoutAceRejected(t *testing.T) {
	game := newBlackjack()

	floats := bjFloats("10", "7", "6", "9")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := game.Advance(mustState(t, out.State), floats, Params{"action": "insurance"}); !errors.Is(err, wager.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestBlackjackCashOutPlaysDealer(t *testing.T) {
	game := newBlackjack()

	t.Run("dealer draws to twenty", func(t *testing.T) {
		// Player 19 cashes out against a dealer 2-3. The dealer must
		// keep drawing to 17+, not settle on 5: a 5 and a king make 20
		// and the hand loses.
		floats := bjFloats("10", "2", "9", "3", "5", "K")
		out, err := game.Resolve(floats, nil)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		settled, err := game.CashOut(mustState(t, out.State), floats)
		if err != nil {
			t.Fatalf("CashOut failed: %v", err)
		}
		if !settled.Final {
			t.Fatal("cash-out must settle the wager")
		}
		state := settled.State.(BlackjackState)
		if len(state.Dealer) != 4 {
			t.Errorf("expected the dealer to draw two cards, got %d total", len(state.Dealer))
		}
		if got := handValue(state.Dealer); got != 20 {
			t.Errorf("expected dealer 20, got %d", got)
		}
		if settled.Multiplier != 0 {
			t.Errorf("expected a loss against dealer 20, got multiplier %v", settled.Multiplier)
		}
	})

	t.Run("dealer draws and busts", func(t *testing.T) {
		// Same shoe, but the draws are a king and a queen: 25 busts and
		// the standing 19 wins.
		floats := bjFloats("10", "2", "9", "3", "K", "Q")
		out, err := game.Resolve(floats, nil)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		settled, err := game.CashOut(mustState(t, out.State), floats)
		if err != nil {
			t.Fatalf("CashOut failed: %v", err)
		}
		state := settled.State.(BlackjackState)
		if got := handValue(state.Dealer); got != 25 {
			t.Errorf("expected dealer bust at 25, got %d", got)
		}
		if settled.Multiplier != 2 {
			t.Errorf("expected multiplier 2 on dealer bust, got %v", settled.Multiplier)
		}
	})
}

func TestBlackjackUnknownAction(t *testing.T) {
	game := newBlackjack()

	floats := bjFloats("10", "7", "6", "9")
	out, err := game.Resolve(floats, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := game.Advance(mustState(t, out.State), floats, Params{"action": "fold"}); !errors.Is(err, wager.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}
