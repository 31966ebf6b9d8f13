// Package ledger is the transactional heart of the engine: every
// wager-affecting operation runs inside a single storage transaction,
// so balances, nonces and wager rows move together or not at all.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/openwager/engine/internal/engine"
	"github.com/openwager/engine/internal/games"
	"github.com/openwager/engine/internal/seeds"
	"github.com/openwager/engine/internal/session"
	"github.com/openwager/engine/internal/store"
	"github.com/openwager/engine/internal/wager"
)

// Ledger coordinates storage, the seed chain, the outcome engines and
// the session cache.
type Ledger struct {
	db     store.DB
	chain  *seeds.Chain
	games  *games.Registry
	cache  session.Cache
	logger *log.Logger
}

func New(db store.DB, chain *seeds.Chain, registry *games.Registry, cache session.Cache, logger *log.Logger) *Ledger {
	return &Ledger{db: db, chain: chain, games: registry, cache: cache, logger: logger}
}

// Result pairs the persisted wager row with the outcome the engine
// produced for this operation.
type Result struct {
	Wager   *wager.Wager
	Outcome games.Outcome
}

// withRetry re-runs fn on transient storage failures. Each attempt is a
// fresh transaction, so a retried conflict never observes partial
// writes from its predecessor.
func (l *Ledger) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(5*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, wager.ErrStorageConflict) || errors.Is(err, wager.ErrStorageTimeout) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// PlaceWager debits the bet, consumes the next nonce of the user's
// current seed state and resolves the initial outcome, all atomically.
// Single-shot games settle in the same transaction; multi-round games
// leave an active wager behind. Invalid parameters roll everything
// back, so no nonce is wasted on a rejected bet.
func (l *Ledger) PlaceWager(ctx context.Context, userID string, game wager.Game, betCents int64, params games.Params) (*Result, error) {
	if !game.Valid() {
		return nil, wager.InvalidParamsf("unknown game %q", game)
	}
	if betCents <= 0 {
		return nil, wager.InvalidParamsf("bet must be positive, got %d cents", betCents)
	}
	g, ok := l.games.Get(game)
	if !ok {
		return nil, wager.InvalidParamsf("unknown game %q", game)
	}
	if sv, ok := g.(games.StakeValidator); ok {
		total, err := sv.TotalStakeCents(params)
		if err != nil {
			return nil, err
		}
		if total != betCents {
			return nil, wager.InvalidParamsf("bets stake %d cents but the wager bet is %d", total, betCents)
		}
	}

	// Creates the first seed state on demand, in its own transaction.
	if _, err := l.chain.Current(ctx, userID); err != nil {
		return nil, err
	}

	var res *Result
	err := l.withRetry(ctx, func(ctx context.Context) error {
		return l.db.Tx(ctx, func(ctx context.Context, tx *store.Tx) error {
			if _, err := tx.ActiveWager(ctx, userID); err == nil {
				return wager.ErrActiveWagerExists
			} else if !errors.Is(err, wager.ErrWagerNotFound) {
				return err
			}

			seed, err := tx.ActiveSeedState(ctx, userID)
			if err != nil {
				return err
			}
			if err := tx.AddBalance(ctx, userID, -betCents); err != nil {
				return err
			}
			nonce, err := tx.NextNonce(ctx, seed.ID)
			if err != nil {
				return err
			}

			floats := engine.Floats(seed.ServerSeed, seed.ClientSeed, nonce, 0, g.FloatCount(params))
			outcome, err := g.Resolve(floats, params)
			if err != nil {
				return err
			}

			w := &wager.Wager{
				ID:             uuid.New().String(),
				UserID:         userID,
				Game:           game,
				BetAmountCents: betCents,
				Active:         !outcome.Final,
				NonceUsed:      nonce,
				SeedStateID:    seed.ID,
				CreatedAt:      time.Now().UTC(),
			}
			if err := l.applyOutcome(ctx, tx, w, outcome); err != nil {
				return err
			}
			if err := tx.InsertWager(ctx, w); err != nil {
				return err
			}
			res = &Result{Wager: w, Outcome: outcome}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	l.syncCache(ctx, res.Wager)
	l.logger.Printf("wager placed user=%s game=%s bet=%d nonce=%d final=%t payout=%d",
		userID, game, betCents, res.Wager.NonceUsed, !res.Wager.Active, res.Wager.PayoutAmountCents)
	return res, nil
}

// Advance applies one round action (reveal a tile, hop, hit) to the
// user's active wager. Actions that raise the stake (blackjack double,
// split, insurance) debit the extra inside the same transaction; an
// insufficient balance rejects the whole round.
func (l *Ledger) Advance(ctx context.Context, userID string, params games.Params) (*Result, error) {
	var res *Result
	err := l.withRetry(ctx, func(ctx context.Context) error {
		return l.db.Tx(ctx, func(ctx context.Context, tx *store.Tx) error {
			w, err := tx.ActiveWager(ctx, userID)
			if err != nil {
				return err
			}
			rg, ok := l.games.Round(w.Game)
			if !ok {
				return fmt.Errorf("%w: %s settles in a single round", wager.ErrWagerInactive, w.Game)
			}

			seed, err := tx.SeedState(ctx, w.SeedStateID)
			if err != nil {
				return err
			}
			floats := engine.Floats(seed.ServerSeed, seed.ClientSeed, w.NonceUsed, 0, rg.FloatCount(params))
			outcome, err := rg.Advance(w.State, floats, params)
			if err != nil {
				return err
			}

			if outcome.ExtraBetMultiple > 0 {
				extra := wager.StakeCents(w.BetAmountCents, outcome.ExtraBetMultiple)
				if err := tx.AddBalance(ctx, userID, -extra); err != nil {
					return err
				}
			}
			if err := l.applyOutcome(ctx, tx, w, outcome); err != nil {
				return err
			}
			if err := tx.UpdateWager(ctx, w); err != nil {
				return err
			}
			res = &Result{Wager: w, Outcome: outcome}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	l.syncCache(ctx, res.Wager)
	return res, nil
}

// CashOut settles the user's active wager at its current multiplier.
func (l *Ledger) CashOut(ctx context.Context, userID string) (*Result, error) {
	var res *Result
	err := l.withRetry(ctx, func(ctx context.Context) error {
		return l.db.Tx(ctx, func(ctx context.Context, tx *store.Tx) error {
			w, err := tx.ActiveWager(ctx, userID)
			if err != nil {
				return err
			}
			rg, ok := l.games.Round(w.Game)
			if !ok {
				return fmt.Errorf("%w: %s settles in a single round", wager.ErrWagerInactive, w.Game)
			}

			seed, err := tx.SeedState(ctx, w.SeedStateID)
			if err != nil {
				return err
			}
			floats := engine.Floats(seed.ServerSeed, seed.ClientSeed, w.NonceUsed, 0, rg.FloatCount(nil))
			outcome, err := rg.CashOut(w.State, floats)
			if err != nil {
				return err
			}
			if err := l.applyOutcome(ctx, tx, w, outcome); err != nil {
				return err
			}
			if err := tx.UpdateWager(ctx, w); err != nil {
				return err
			}
			res = &Result{Wager: w, Outcome: outcome}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	l.syncCache(ctx, res.Wager)
	l.logger.Printf("wager cashed out user=%s wager=%s payout=%d", userID, res.Wager.ID, res.Wager.PayoutAmountCents)
	return res, nil
}

// applyOutcome folds an engine outcome into the wager row, crediting
// the payout when the outcome is terminal. The payout is written
// exactly once.
func (l *Ledger) applyOutcome(ctx context.Context, tx *store.Tx, w *wager.Wager, outcome games.Outcome) error {
	state, err := json.Marshal(outcome.State)
	if err != nil {
		return fmt.Errorf("failed to serialize game state: %w", err)
	}
	w.State = state

	if !outcome.Final {
		return nil
	}
	payout := wager.PayoutCents(w.BetAmountCents, outcome.Multiplier)
	if payout > 0 {
		if err := tx.AddBalance(ctx, w.UserID, payout); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	w.PayoutAmountCents = payout
	w.Active = false
	w.SettledAt = &now
	return nil
}

// syncCache reflects the committed row into the session cache. Settled
// wagers are evicted rather than stored.
func (l *Ledger) syncCache(ctx context.Context, w *wager.Wager) {
	if w.Active {
		l.cache.Put(ctx, w.UserID, w)
	} else {
		l.cache.Evict(ctx, w.UserID)
	}
}

// ActiveWager is the read path for the open wager, served from the
// session cache when possible.
func (l *Ledger) ActiveWager(ctx context.Context, userID string) (*wager.Wager, error) {
	if w, ok := l.cache.Get(ctx, userID); ok {
		return w, nil
	}
	w, err := l.db.GetActiveWager(ctx, userID)
	if err != nil {
		return nil, err
	}
	l.cache.Put(ctx, userID, w)
	return w, nil
}

// Wager returns a wager row by id.
func (l *Ledger) Wager(ctx context.Context, id string) (*wager.Wager, error) {
	return l.db.GetWager(ctx, id)
}

// History lists a user's wagers, newest first.
func (l *Ledger) History(ctx context.Context, query store.WagersQuery) (*store.WagersList, error) {
	return l.db.ListWagers(ctx, query)
}

// Balance returns the user's current balance in cents.
func (l *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	u, err := l.db.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.BalanceCents, nil
}
