package session

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/openwager/engine/internal/wager"
)

const memoryShards = 32

// Memory is an in-process sharded cache. Sharding keeps lock
// contention low when many users advance wagers concurrently.
type Memory struct {
	shards [memoryShards]memoryShard
}

type memoryShard struct {
	mu      sync.RWMutex
	entries map[string]*wager.Wager
}

func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.shards {
		m.shards[i].entries = make(map[string]*wager.Wager)
	}
	return m
}

func (m *Memory) shard(userID string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &m.shards[h.Sum32()%memoryShards]
}

func (m *Memory) Get(ctx context.Context, userID string) (*wager.Wager, bool) {
	s := m.shard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.entries[userID]
	if !ok {
		return nil, false
	}
	// Copy so callers cannot mutate the cached row.
	clone := *w
	return &clone, true
}

func (m *Memory) Put(ctx context.Context, userID string, w *wager.Wager) {
	clone := *w
	s := m.shard(userID)
	s.mu.Lock()
	s.entries[userID] = &clone
	s.mu.Unlock()
}

func (m *Memory) Evict(ctx context.Context, userID string) {
	s := m.shard(userID)
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}
