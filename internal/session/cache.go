// Package session caches the active wager per user so the hot
// advance/cash-out path can skip a database read. The cache is an
// optimization only: a miss or a stale entry always falls back to the
// ledger's transactional read.
package session

import (
	"context"

	"github.com/openwager/engine/internal/wager"
)

// Cache holds at most one active wager per user. Implementations must
// be safe for concurrent use. Get returning ok=false means the caller
// reads through to storage.
type Cache interface {
	Get(ctx context.Context, userID string) (*wager.Wager, bool)
	Put(ctx context.Context, userID string, w *wager.Wager)
	Evict(ctx context.Context, userID string)
}
