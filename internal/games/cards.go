package games

import "math"

// Card is a playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Suit + c.Rank
}

// Suit order ♦ ♥ ♠ ♣, rank order 2-A. The deck index of a card is
// rank-major: ♦2, ♥2, ♠2, ♣2, ♦3, ... This ordering is part of the
// public verification contract.
var (
	cardSuits = []string{"♦", "♥", "♠", "♣"}
	cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	cardDeck  [52]Card
)

func init() {
	i := 0
	for _, rank := range cardRanks {
		for _, suit := range cardSuits {
			cardDeck[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}
}

// cardFromFloat maps one float in [0,1) to a card: index = floor(f*52),
// draw-with-replacement across the shoe.
func cardFromFloat(f float64) Card {
	index := int(math.Floor(f * 52))
	if index < 0 {
		index = 0
	}
	if index >= 52 {
		index = 51
	}
	return cardDeck[index]
}

// blackjackCardValue returns the soft point value: ace counts 11 here
// and is reduced per hand in handValue.
func blackjackCardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "K", "Q", "J", "10":
		return 10
	case "9":
		return 9
	case "8":
		return 8
	case "7":
		return 7
	case "6":
		return 6
	case "5":
		return 5
	case "4":
		return 4
	case "3":
		return 3
	case "2":
		return 2
	default:
		return 0
	}
}

// handValue computes the best blackjack value: each ace counts 11,
// reduced to 1 one at a time while the total exceeds 21.
func handValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += blackjackCardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
