package autobet

// Stats tracks session-level betting statistics in integer cents.
type Stats struct {
	Bets         int   `json:"bets"`
	Wins         int   `json:"wins"`
	Losses       int   `json:"losses"`
	WageredCents int64 `json:"wagered_cents"`
	ProfitCents  int64 `json:"profit_cents"`
	BalanceCents int64 `json:"balance_cents"`
	StartCents   int64 `json:"start_cents"`

	WinStreak  int `json:"win_streak"`
	LoseStreak int `json:"lose_streak"`
	// Positive while winning, negative while losing.
	CurrentStreak int `json:"current_streak"`

	HighestBetCents    int64 `json:"highest_bet_cents"`
	HighestProfitCents int64 `json:"highest_profit_cents"`
	LowestProfitCents  int64 `json:"lowest_profit_cents"`
}

func NewStats(startBalanceCents int64) *Stats {
	return &Stats{
		BalanceCents: startBalanceCents,
		StartCents:   startBalanceCents,
	}
}

// Record folds one settled bet into the running totals.
func (s *Stats) Record(betCents, payoutCents int64) {
	s.Bets++

	profit := payoutCents - betCents
	s.ProfitCents += profit
	s.WageredCents += betCents
	s.BalanceCents += profit

	if payoutCents > betCents {
		s.Wins++
		s.WinStreak++
		s.LoseStreak = 0
		s.CurrentStreak = s.WinStreak
	} else {
		s.Losses++
		s.LoseStreak++
		s.WinStreak = 0
		s.CurrentStreak = -s.LoseStreak
	}

	if betCents > s.HighestBetCents {
		s.HighestBetCents = betCents
	}
	if s.ProfitCents > s.HighestProfitCents {
		s.HighestProfitCents = s.ProfitCents
	}
	if s.ProfitCents < s.LowestProfitCents {
		s.LowestProfitCents = s.ProfitCents
	}
}
