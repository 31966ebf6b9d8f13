package api

import (
	"github.com/openwager/engine/internal/engine"
	"github.com/openwager/engine/internal/games"
	"github.com/openwager/engine/internal/store"
	"github.com/openwager/engine/internal/wager"
)

// EngineError is the structured error envelope every failing response
// carries.
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeValidation    = "validation_error"

	// Domain errors
	ErrTypeInsufficientBalance = "insufficient_balance"
	ErrTypeActiveWagerExists   = "active_wager_exists"
	ErrTypeWagerNotFound       = "wager_not_found"
	ErrTypeWagerInactive       = "wager_inactive"
	ErrTypeSeedNotRevealed     = "seed_not_yet_revealed"
	ErrTypeSeedNotFound        = "seed_not_found"
	ErrTypeUserNotFound        = "user_not_found"
	ErrTypeGameNotFound        = "game_not_found"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryDomain     ErrorCategory = "domain"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidParams, ErrTypeValidation:
		return CategoryValidation
	case ErrTypeInsufficientBalance, ErrTypeActiveWagerExists, ErrTypeWagerNotFound,
		ErrTypeWagerInactive, ErrTypeSeedNotRevealed, ErrTypeSeedNotFound,
		ErrTypeUserNotFound, ErrTypeGameNotFound:
		return CategoryDomain
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// CreateUserRequest registers an account with a starting balance.
type CreateUserRequest struct {
	ID           string `json:"id"`
	BalanceCents int64  `json:"balance_cents"`
}

// BalanceResponse reports an account balance.
type BalanceResponse struct {
	UserID       string `json:"user_id"`
	BalanceCents int64  `json:"balance_cents"`
}

// PlaceWagerRequest opens a wager.
type PlaceWagerRequest struct {
	UserID         string       `json:"user_id"`
	Game           wager.Game   `json:"game"`
	BetAmountCents int64        `json:"bet_amount_cents"`
	Params         games.Params `json:"params,omitempty"`
}

// AdvanceWagerRequest applies one round action to the active wager.
type AdvanceWagerRequest struct {
	UserID string       `json:"user_id"`
	Params games.Params `json:"params"`
}

// CashOutRequest settles the active wager at its current value.
type CashOutRequest struct {
	UserID string `json:"user_id"`
}

// WagerResponse is the common response for wager mutations. The full
// game state (mine positions, shuffled road, dealer hole card) is only
// included once the wager has settled.
type WagerResponse struct {
	Wager         *wager.Wager   `json:"wager"`
	Multiplier    float64        `json:"multiplier"`
	Final         bool           `json:"final"`
	Details       map[string]any `json:"details,omitempty"`
	EngineVersion string         `json:"engine_version"`
}

// SeedStateResponse is the public view of a seed state: the server
// seed itself appears only for revealed states.
type SeedStateResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	ServerSeedHash string `json:"server_seed_hash"`
	ServerSeed     string `json:"server_seed,omitempty"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
	Revealed       bool   `json:"revealed"`
}

// RotateSeedsRequest rotates to a fresh seed pair.
type RotateSeedsRequest struct {
	UserID     string `json:"user_id"`
	ClientSeed string `json:"client_seed,omitempty"`
}

// RotateSeedsResponse returns the revealed previous state alongside the
// new current one.
type RotateSeedsResponse struct {
	Revealed *SeedStateResponse `json:"revealed,omitempty"`
	Current  *SeedStateResponse `json:"current"`
}

// RevealSeedRequest asks for the server seed behind a published hash.
type RevealSeedRequest struct {
	UserID         string `json:"user_id"`
	ServerSeedHash string `json:"server_seed_hash"`
}

// VerifyRequest replays one wager outcome offline from revealed seeds.
type VerifyRequest struct {
	Game   wager.Game   `json:"game"`
	Seeds  engine.Seeds `json:"seeds"`
	Nonce  uint64       `json:"nonce"`
	Params games.Params `json:"params,omitempty"`
}

// VerifyResponse echoes the request with the reproduced outcome. For
// multi-round games the outcome exposes the full hidden layout so the
// player can check every round they played.
type VerifyResponse struct {
	Nonce         uint64         `json:"nonce"`
	Multiplier    float64        `json:"multiplier"`
	Final         bool           `json:"final"`
	State         any            `json:"state"`
	Details       map[string]any `json:"details,omitempty"`
	Floats        []float64      `json:"floats"`
	EngineVersion string         `json:"engine_version"`
	Echo          VerifyRequest  `json:"echo"`
}

// GamesResponse lists the available games.
type GamesResponse struct {
	Games         []games.Spec `json:"games"`
	EngineVersion string       `json:"engine_version"`
}

// SeedHashRequest computes the commitment for a server seed.
type SeedHashRequest struct {
	ServerSeed string `json:"server_seed"`
}

// SeedHashResponse is the commitment hash with echo.
type SeedHashResponse struct {
	Hash          string          `json:"hash"`
	EngineVersion string          `json:"engine_version"`
	Echo          SeedHashRequest `json:"echo"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}

func seedStateView(st *store.SeedState, includeSeed bool) *SeedStateResponse {
	if st == nil {
		return nil
	}
	resp := &SeedStateResponse{
		ID:             st.ID,
		UserID:         st.UserID,
		ServerSeedHash: st.ServerSeedHash,
		ClientSeed:     st.ClientSeed,
		Nonce:          st.Nonce,
		Revealed:       st.Revealed,
	}
	if includeSeed && st.Revealed {
		resp.ServerSeed = st.ServerSeed
	}
	return resp
}
