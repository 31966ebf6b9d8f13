package seeds

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openwager/engine/internal/store"
	"github.com/openwager/engine/internal/wager"
)

// Chain manages the per-user seed chain: exactly one current seed state
// whose server seed is secret but committed to by its hash, and a
// history of rotated-away states whose server seeds are public.
type Chain struct {
	db store.DB
}

func NewChain(db store.DB) *Chain {
	return &Chain{db: db}
}

// Hash is the published commitment for a server seed.
func Hash(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// NewServerSeed draws 32 bytes of system entropy, hex encoded.
func NewServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to draw server seed entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewClientSeed is the default client seed for users who do not supply
// their own.
func NewClientSeed() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to draw client seed entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Current returns the user's current seed state, creating the first
// link of the chain on demand.
func (c *Chain) Current(ctx context.Context, userID string) (*store.SeedState, error) {
	st, err := c.db.ActiveSeedState(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, wager.ErrSeedNotFound) {
		return nil, err
	}

	var created *store.SeedState
	err = c.db.Tx(ctx, func(ctx context.Context, tx *store.Tx) error {
		// Re-check inside the transaction; a concurrent request may have
		// created the state already.
		if st, err := tx.ActiveSeedState(ctx, userID); err == nil {
			created = st
			return nil
		} else if !errors.Is(err, wager.ErrSeedNotFound) {
			return err
		}
		if _, err := tx.User(ctx, userID); err != nil {
			return err
		}
		st, err := c.freshState(userID, "")
		if err != nil {
			return err
		}
		if err := tx.InsertSeedState(ctx, st); err != nil {
			return err
		}
		created = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Rotate reveals the current seed state and installs a fresh one with
// the given client seed (or a random one when empty). Rotation is
// rejected while a wager is open so the revealed seed cannot be used to
// predict an in-flight outcome.
func (c *Chain) Rotate(ctx context.Context, userID, clientSeed string) (revealed, current *store.SeedState, err error) {
	err = c.db.Tx(ctx, func(ctx context.Context, tx *store.Tx) error {
		if _, err := tx.User(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.ActiveWager(ctx, userID); err == nil {
			return fmt.Errorf("%w: settle it before rotating seeds", wager.ErrActiveWagerExists)
		} else if !errors.Is(err, wager.ErrWagerNotFound) {
			return err
		}

		old, err := tx.ActiveSeedState(ctx, userID)
		if err != nil && !errors.Is(err, wager.ErrSeedNotFound) {
			return err
		}
		now := time.Now().UTC()
		if old != nil {
			if err := tx.RevealSeedState(ctx, old.ID, now); err != nil {
				return err
			}
			old.Revealed = true
			old.RotatedAt = &now
			revealed = old
		}

		next, err := c.freshState(userID, clientSeed)
		if err != nil {
			return err
		}
		if err := tx.InsertSeedState(ctx, next); err != nil {
			return err
		}
		current = next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return revealed, current, nil
}

// Reveal resolves a commitment hash to its seed state with the server
// seed included. Only rotated-away states may be disclosed.
func (c *Chain) Reveal(ctx context.Context, userID, serverSeedHash string) (*store.SeedState, error) {
	st, err := c.db.SeedStateByHash(ctx, userID, serverSeedHash)
	if err != nil {
		return nil, err
	}
	if !st.Revealed {
		return nil, wager.ErrSeedNotYetRevealed
	}
	return st, nil
}

func (c *Chain) freshState(userID, clientSeed string) (*store.SeedState, error) {
	serverSeed, err := NewServerSeed()
	if err != nil {
		return nil, err
	}
	if clientSeed == "" {
		if clientSeed, err = NewClientSeed(); err != nil {
			return nil, err
		}
	}
	return &store.SeedState{
		ID:             uuid.New().String(),
		UserID:         userID,
		ServerSeed:     serverSeed,
		ServerSeedHash: Hash(serverSeed),
		ClientSeed:     clientSeed,
		Nonce:          0,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
