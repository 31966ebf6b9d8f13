// Package autobet runs user-supplied dice strategies against the real
// ledger. The script sees the classic betting-bot variables (balance,
// nextbet, chance, bethigh, win) and a dobet() hook called after every
// settled wager.
package autobet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/openwager/engine/internal/games"
	"github.com/openwager/engine/internal/ledger"
	"github.com/openwager/engine/internal/wager"
)

// Options bounds a session so a buggy script cannot run forever.
type Options struct {
	MaxBets int
	Script  string
}

const defaultMaxBets = 1000

// Session is the report for one completed autobet run.
type Session struct {
	Stats   Stats      `json:"stats"`
	Logs    []LogEntry `json:"logs"`
	Stopped string     `json:"stopped"` // "script", "max_bets", "balance", "context"
}

// Runner drives scripted dice sessions through the ledger.
type Runner struct {
	ledger *ledger.Ledger
	logger *log.Logger
}

func NewRunner(lgr *ledger.Ledger, logger *log.Logger) *Runner {
	return &Runner{ledger: lgr, logger: logger}
}

// Run executes one session for the user. Every bet is a real wager:
// balance, nonces and history move exactly as if the user had placed
// it by hand.
func (r *Runner) Run(ctx context.Context, userID string, opts Options) (*Session, error) {
	if opts.Script == "" {
		return nil, wager.InvalidParamsf("script is required")
	}
	maxBets := opts.MaxBets
	if maxBets <= 0 || maxBets > defaultMaxBets {
		maxBets = defaultMaxBets
	}

	startBalance, err := r.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	vm := NewVM()
	stats := NewStats(startBalance)

	// Strategy defaults: 1.00 at 49.5% betting high.
	vm.Set("balance", centsToUnits(startBalance))
	vm.Set("nextbet", 1.0)
	vm.Set("chance", 49.5)
	vm.Set("bethigh", true)
	vm.Set("win", false)

	if err := vm.Execute(opts.Script); err != nil {
		return nil, fmt.Errorf("%w: %v", wager.ErrInvalidParameters, err)
	}

	session := &Session{}
	for stats.Bets < maxBets {
		if err := ctx.Err(); err != nil {
			session.Stopped = "context"
			break
		}
		if vm.IsStopRequested() {
			session.Stopped = "script"
			break
		}

		betCents := unitsToCents(vm.Number("nextbet"))
		chance := vm.Number("chance")
		betHigh := vm.Bool("bethigh")
		if betCents <= 0 {
			return nil, wager.InvalidParamsf("nextbet must be positive")
		}
		if chance <= 0.01 || chance >= 99.99 {
			return nil, wager.InvalidParamsf("chance must be between 0.01 and 99.99, got %v", chance)
		}

		params := diceParams(chance, betHigh)
		res, err := r.ledger.PlaceWager(ctx, userID, wager.GameDice, betCents, params)
		if errors.Is(err, wager.ErrInsufficientBalance) {
			session.Stopped = "balance"
			break
		}
		if err != nil {
			return nil, err
		}

		stats.Record(betCents, res.Wager.PayoutAmountCents)
		vm.Set("balance", centsToUnits(stats.BalanceCents))
		vm.Set("win", res.Wager.PayoutAmountCents > 0)
		vm.Set("lastroll", res.Outcome.Details["roll"])
		vm.Set("currentprofit", centsToUnits(stats.ProfitCents))
		vm.Set("bets", stats.Bets)
		vm.Set("currentstreak", stats.CurrentStreak)

		if err := vm.CallDobet(); err != nil {
			return nil, fmt.Errorf("%w: %v", wager.ErrInvalidParameters, err)
		}
	}
	if session.Stopped == "" {
		session.Stopped = "max_bets"
	}

	session.Stats = *stats
	session.Logs = vm.Logs()
	r.logger.Printf("autobet session finished user=%s bets=%d profit=%d stopped=%s",
		userID, stats.Bets, stats.ProfitCents, session.Stopped)
	return session, nil
}

// diceParams converts a win chance percentage and direction into the
// engine's target/condition parameters.
func diceParams(chance float64, betHigh bool) games.Params {
	if betHigh {
		return games.Params{"target": 100 - chance, "condition": "above"}
	}
	return games.Params{"target": chance, "condition": "below"}
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

func unitsToCents(units float64) int64 {
	return int64(math.Round(units * 100))
}
