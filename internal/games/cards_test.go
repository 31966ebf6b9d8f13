package games

import "testing"

func TestCardFromFloat(t *testing.T) {
	cases := []struct {
		float    float64
		wantRank string
		wantSuit string
	}{
		{0, "2", "♦"},
		{0.02, "2", "♥"},     // index 1
		{0.999999, "A", "♣"}, // index 51
		{0.5, "8", "♠"},      // index 26
	}
	for _, tc := range cases {
		card := cardFromFloat(tc.float)
		if card.Rank != tc.wantRank || card.Suit != tc.wantSuit {
			t.Errorf("float %v: expected %s%s, got %s%s", tc.float, tc.wantSuit, tc.wantRank, card.Suit, card.Rank)
		}
	}
}

func TestDeckOrderRankMajor(t *testing.T) {
	// The first four cards are the 2s in suit order, then the 3s.
	wantRanks := []string{"2", "2", "2", "2", "3"}
	wantSuits := []string{"♦", "♥", "♠", "♣", "♦"}
	for i := range wantRanks {
		if cardDeck[i].Rank != wantRanks[i] || cardDeck[i].Suit != wantSuits[i] {
			t.Errorf("deck[%d]: expected %s%s, got %s%s",
				i, wantSuits[i], wantRanks[i], cardDeck[i].Suit, cardDeck[i].Rank)
		}
	}
	if cardDeck[51].Rank != "A" || cardDeck[51].Suit != "♣" {
		t.Errorf("deck[51]: expected ♣A, got %s%s", cardDeck[51].Suit, cardDeck[51].Rank)
	}
}

func TestHandValue(t *testing.T) {
	cases := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"simple", []Card{{Rank: "5"}, {Rank: "9"}}, 14},
		{"face cards", []Card{{Rank: "K"}, {Rank: "Q"}}, 20},
		{"soft ace", []Card{{Rank: "A"}, {Rank: "6"}}, 17},
		{"natural", []Card{{Rank: "A"}, {Rank: "K"}}, 21},
		{"ace reduced", []Card{{Rank: "A"}, {Rank: "9"}, {Rank: "5"}}, 15},
		{"two aces", []Card{{Rank: "A"}, {Rank: "A"}}, 12},
		{"two aces reduced", []Card{{Rank: "A"}, {Rank: "A"}, {Rank: "K"}, {Rank: "9"}}, 21},
		{"bust", []Card{{Rank: "K"}, {Rank: "Q"}, {Rank: "5"}}, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := handValue(tc.cards); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
