package store

import (
	"context"
	"time"

	"github.com/openwager/engine/internal/wager"
)

// DB is the persistence interface for the wager ledger and seed chain.
// Mutating operations that must be atomic run inside Tx; plain reads go
// through the top-level methods.
type DB interface {
	Close() error
	Migrate() error

	Tx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error

	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user *User) error

	GetWager(ctx context.Context, id string) (*wager.Wager, error)
	GetActiveWager(ctx context.Context, userID string) (*wager.Wager, error)
	ListWagers(ctx context.Context, query WagersQuery) (*WagersList, error)

	GetSeedState(ctx context.Context, id string) (*SeedState, error)
	ActiveSeedState(ctx context.Context, userID string) (*SeedState, error)
	SeedStateByHash(ctx context.Context, userID, hash string) (*SeedState, error)
}

// User is an account row. Balance is integer cents.
type User struct {
	ID           string    `json:"id"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

// SeedState is one link of a user's seed chain. ServerSeedHash is the
// sha256 commitment published before any wager uses the seed. Nonce is
// the last consumed wager counter; 0 means no wager has used this seed
// yet. Revealed marks a rotated-away state whose server seed is public.
type SeedState struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ServerSeed     string     `json:"-"`
	ServerSeedHash string     `json:"server_seed_hash"`
	ClientSeed     string     `json:"client_seed"`
	Nonce          uint64     `json:"nonce"`
	Revealed       bool       `json:"revealed"`
	CreatedAt      time.Time  `json:"created_at"`
	RotatedAt      *time.Time `json:"rotated_at,omitempty"`
}

// WagersQuery filters and paginates wager history.
type WagersQuery struct {
	UserID  string `json:"user_id,omitempty"`
	Game    string `json:"game,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// WagersList is a paginated wager history response.
type WagersList struct {
	Wagers     []wager.Wager `json:"wagers"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	TotalPages int           `json:"totalPages"`
}
