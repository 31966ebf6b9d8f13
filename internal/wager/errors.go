package wager

import (
	"errors"
	"fmt"
)

// Recoverable domain failures. Every wager-affecting operation either
// fully commits or fails with one of these; callers branch with
// errors.Is.
var (
	// ErrInsufficientBalance rejects a wager before any state mutation.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrActiveWagerExists means the user must resolve their open wager
	// before placing a new one or rotating seeds.
	ErrActiveWagerExists = errors.New("active wager exists")

	// ErrWagerNotFound means no active wager matches the request.
	ErrWagerNotFound = errors.New("wager not found")

	// ErrWagerInactive means the wager has already settled.
	ErrWagerInactive = errors.New("wager is not active")

	// ErrInvalidParameters rejects malformed game parameters before any
	// randomness is consumed, so no nonce is wasted.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrStorageTimeout is a transient storage failure; safe to retry.
	ErrStorageTimeout = errors.New("storage timeout")

	// ErrStorageConflict is a transient serialization failure; safe to
	// retry.
	ErrStorageConflict = errors.New("storage conflict")

	// ErrSeedNotYetRevealed guards against disclosing a server seed that
	// could still predict future outcomes.
	ErrSeedNotYetRevealed = errors.New("server seed not yet revealed")

	// ErrSeedNotFound means no seed state matches the given hash.
	ErrSeedNotFound = errors.New("seed state not found")

	// ErrUserNotFound means the user has no balance row.
	ErrUserNotFound = errors.New("user not found")
)

// InvalidParamsf wraps ErrInvalidParameters with detail about which
// parameter was rejected.
func InvalidParamsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
}
