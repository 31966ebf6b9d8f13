package wager

import "github.com/shopspring/decimal"

// PayoutCents converts a payout multiplier into integral minor units:
// round-half-up on stake * multiplier.
func PayoutCents(betCents int64, multiplier float64) int64 {
	if multiplier <= 0 {
		return 0
	}
	return decimal.NewFromInt(betCents).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0).
		IntPart()
}

// StakeCents converts a stake expressed in multiples of the original
// bet (blackjack double/split/insurance) into minor units.
func StakeCents(betCents int64, multiple float64) int64 {
	if multiple <= 0 {
		return 0
	}
	return decimal.NewFromInt(betCents).
		Mul(decimal.NewFromFloat(multiple)).
		Round(0).
		IntPart()
}
