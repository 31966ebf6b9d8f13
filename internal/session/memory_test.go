package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/openwager/engine/internal/wager"
)

func TestMemoryPutGetEvict(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	if _, ok := cache.Get(ctx, "alice"); ok {
		t.Fatal("empty cache must miss")
	}

	w := &wager.Wager{ID: "w1", UserID: "alice", Game: wager.GameMines, Active: true}
	cache.Put(ctx, "alice", w)

	got, ok := cache.Get(ctx, "alice")
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if got.ID != "w1" || got.Game != wager.GameMines {
		t.Errorf("unexpected cached wager: %+v", got)
	}

	cache.Evict(ctx, "alice")
	if _, ok := cache.Get(ctx, "alice"); ok {
		t.Error("expected a miss after Evict")
	}
}

func TestMemoryCopiesOnGet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	cache.Put(ctx, "alice", &wager.Wager{ID: "w1", Active: true})

	first, _ := cache.Get(ctx, "alice")
	first.Active = false

	second, _ := cache.Get(ctx, "alice")
	if !second.Active {
		t.Error("mutating a returned wager must not change the cached copy")
	}
}

func TestMemoryCopiesOnPut(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	w := &wager.Wager{ID: "w1", Active: true}
	cache.Put(ctx, "alice", w)
	w.Active = false

	got, _ := cache.Get(ctx, "alice")
	if !got.Active {
		t.Error("mutating the original wager must not change the cached copy")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%8)
			cache.Put(ctx, userID, &wager.Wager{ID: fmt.Sprintf("w-%d", i), UserID: userID})
			cache.Get(ctx, userID)
			if i%4 == 0 {
				cache.Evict(ctx, userID)
			}
		}(i)
	}
	wg.Wait()
}
