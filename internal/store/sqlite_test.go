package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openwager/engine/internal/wager"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *SQLite, id string, balanceCents int64) {
	t.Helper()
	if err := db.CreateUser(context.Background(), &User{ID: id, BalanceCents: balanceCents}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func insertTestSeed(t *testing.T, db *SQLite, userID string) *SeedState {
	t.Helper()
	st := &SeedState{
		ID:             uuid.New().String(),
		UserID:         userID,
		ServerSeed:     "server-seed-" + userID,
		ServerSeedHash: "hash-" + userID,
		ClientSeed:     "client-seed",
	}
	err := db.Tx(context.Background(), func(ctx context.Context, tx *Tx) error {
		return tx.InsertSeedState(ctx, st)
	})
	if err != nil {
		t.Fatalf("failed to insert seed state: %v", err)
	}
	return st
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if _, err := db.GetUser(ctx, "alice"); !errors.Is(err, wager.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	createTestUser(t, db, "alice", 10000)
	user, err := db.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.BalanceCents != 10000 {
		t.Errorf("expected balance 10000, got %d", user.BalanceCents)
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestAddBalance(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)

	err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.AddBalance(ctx, "alice", -400)
	})
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	user, _ := db.GetUser(ctx, "alice")
	if user.BalanceCents != 600 {
		t.Errorf("expected balance 600, got %d", user.BalanceCents)
	}

	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.AddBalance(ctx, "alice", -601)
	})
	if !errors.Is(err, wager.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	user, _ = db.GetUser(ctx, "alice")
	if user.BalanceCents != 600 {
		t.Errorf("balance must be unchanged after a failed debit, got %d", user.BalanceCents)
	}

	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.AddBalance(ctx, "nobody", 100)
	})
	if !errors.Is(err, wager.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)

	sentinel := errors.New("boom")
	err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		if err := tx.AddBalance(ctx, "alice", -500); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	user, _ := db.GetUser(ctx, "alice")
	if user.BalanceCents != 1000 {
		t.Errorf("expected rollback to restore balance 1000, got %d", user.BalanceCents)
	}
}

func TestSeedStateLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)

	if _, err := db.ActiveSeedState(ctx, "alice"); !errors.Is(err, wager.ErrSeedNotFound) {
		t.Fatalf("expected ErrSeedNotFound, got %v", err)
	}

	st := insertTestSeed(t, db, "alice")

	active, err := db.ActiveSeedState(ctx, "alice")
	if err != nil {
		t.Fatalf("ActiveSeedState failed: %v", err)
	}
	if active.ID != st.ID || active.Revealed || active.Nonce != 0 {
		t.Errorf("unexpected active state: %+v", active)
	}

	// A second unrevealed state for the same user violates the partial
	// unique index.
	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.InsertSeedState(ctx, &SeedState{
			ID: uuid.New().String(), UserID: "alice",
			ServerSeed: "another", ServerSeedHash: "another-hash", ClientSeed: "c",
		})
	})
	if !errors.Is(err, wager.ErrStorageConflict) {
		t.Fatalf("expected ErrStorageConflict, got %v", err)
	}

	now := time.Now().UTC()
	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.RevealSeedState(ctx, st.ID, now)
	})
	if err != nil {
		t.Fatalf("RevealSeedState failed: %v", err)
	}
	if _, err := db.ActiveSeedState(ctx, "alice"); !errors.Is(err, wager.ErrSeedNotFound) {
		t.Errorf("expected no active state after reveal, got %v", err)
	}

	byHash, err := db.SeedStateByHash(ctx, "alice", st.ServerSeedHash)
	if err != nil {
		t.Fatalf("SeedStateByHash failed: %v", err)
	}
	if !byHash.Revealed || byHash.RotatedAt == nil {
		t.Errorf("expected revealed state with rotation time, got %+v", byHash)
	}
}

func TestNextNonce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)
	st := insertTestSeed(t, db, "alice")

	for want := uint64(1); want <= 3; want++ {
		var nonce uint64
		err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
			var err error
			nonce, err = tx.NextNonce(ctx, st.ID)
			return err
		})
		if err != nil {
			t.Fatalf("NextNonce failed: %v", err)
		}
		if nonce != want {
			t.Errorf("expected nonce %d, got %d", want, nonce)
		}
	}

	err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		_, err := tx.NextNonce(ctx, "missing")
		return err
	})
	if !errors.Is(err, wager.ErrSeedNotFound) {
		t.Errorf("expected ErrSeedNotFound, got %v", err)
	}
}

func TestWagerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)
	st := insertTestSeed(t, db, "alice")

	w := &wager.Wager{
		ID:             uuid.New().String(),
		UserID:         "alice",
		Game:           wager.GameMines,
		BetAmountCents: 100,
		Active:         true,
		NonceUsed:      1,
		SeedStateID:    st.ID,
		State:          []byte(`{"mines":[1,2,3]}`),
	}
	err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.InsertWager(ctx, w)
	})
	if err != nil {
		t.Fatalf("InsertWager failed: %v", err)
	}

	got, err := db.GetActiveWager(ctx, "alice")
	if err != nil {
		t.Fatalf("GetActiveWager failed: %v", err)
	}
	if got.ID != w.ID || !got.Active || string(got.State) != `{"mines":[1,2,3]}` {
		t.Errorf("unexpected active wager: %+v", got)
	}

	// A second active wager for the same user is rejected.
	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.InsertWager(ctx, &wager.Wager{
			ID: uuid.New().String(), UserID: "alice", Game: wager.GameDice,
			BetAmountCents: 100, Active: true, NonceUsed: 2, SeedStateID: st.ID,
		})
	})
	if !errors.Is(err, wager.ErrActiveWagerExists) {
		t.Fatalf("expected ErrActiveWagerExists, got %v", err)
	}

	now := time.Now().UTC()
	w.Active = false
	w.PayoutAmountCents = 250
	w.SettledAt = &now
	err = db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.UpdateWager(ctx, w)
	})
	if err != nil {
		t.Fatalf("UpdateWager failed: %v", err)
	}

	if _, err := db.GetActiveWager(ctx, "alice"); !errors.Is(err, wager.ErrWagerNotFound) {
		t.Errorf("expected no active wager after settlement, got %v", err)
	}
	settled, err := db.GetWager(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetWager failed: %v", err)
	}
	if settled.PayoutAmountCents != 250 || settled.Active || settled.SettledAt == nil {
		t.Errorf("unexpected settled wager: %+v", settled)
	}
}

func TestListWagers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createTestUser(t, db, "alice", 1000)
	st := insertTestSeed(t, db, "alice")

	base := time.Now().UTC().Add(-time.Hour)
	games := []wager.Game{wager.GameDice, wager.GameLimbo, wager.GameDice, wager.GameDice, wager.GameLimbo}
	settled := base
	for i, g := range games {
		err := db.Tx(ctx, func(ctx context.Context, tx *Tx) error {
			return tx.InsertWager(ctx, &wager.Wager{
				ID: uuid.New().String(), UserID: "alice", Game: g,
				BetAmountCents: 100, NonceUsed: uint64(i + 1), SeedStateID: st.ID,
				CreatedAt: base.Add(time.Duration(i) * time.Minute), SettledAt: &settled,
			})
		})
		if err != nil {
			t.Fatalf("InsertWager failed: %v", err)
		}
	}

	list, err := db.ListWagers(ctx, WagersQuery{UserID: "alice", Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("ListWagers failed: %v", err)
	}
	if list.TotalCount != 5 || list.TotalPages != 3 || len(list.Wagers) != 2 {
		t.Errorf("unexpected page: total=%d pages=%d rows=%d", list.TotalCount, list.TotalPages, len(list.Wagers))
	}
	// Newest first.
	if list.Wagers[0].NonceUsed != 5 || list.Wagers[1].NonceUsed != 4 {
		t.Errorf("expected nonces 5,4 on page 1, got %d,%d", list.Wagers[0].NonceUsed, list.Wagers[1].NonceUsed)
	}

	diceOnly, err := db.ListWagers(ctx, WagersQuery{UserID: "alice", Game: string(wager.GameDice)})
	if err != nil {
		t.Fatalf("ListWagers failed: %v", err)
	}
	if diceOnly.TotalCount != 3 {
		t.Errorf("expected 3 dice wagers, got %d", diceOnly.TotalCount)
	}
	for _, w := range diceOnly.Wagers {
		if w.Game != wager.GameDice {
			t.Errorf("unexpected game %s in filtered list", w.Game)
		}
	}
}
