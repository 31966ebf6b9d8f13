package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openwager/engine/internal/autobet"
	"github.com/openwager/engine/internal/games"
	"github.com/openwager/engine/internal/ledger"
	"github.com/openwager/engine/internal/seeds"
	"github.com/openwager/engine/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	ledger       *ledger.Ledger
	chain        *seeds.Chain
	games        *games.Registry
	runner       *autobet.Runner
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB, lgr *ledger.Ledger, chain *seeds.Chain, registry *games.Registry, logger *log.Logger) *Server {
	return &Server{
		db:           db,
		ledger:       lgr,
		chain:        chain,
		games:        registry,
		runner:       autobet.NewRunner(lgr, logger),
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}/balance", s.handleBalance)

		r.Post("/wagers", s.handlePlaceWager)
		r.Post("/wagers/advance", s.handleAdvanceWager)
		r.Post("/wagers/cashout", s.handleCashOut)
		r.Get("/wagers/active", s.handleActiveWager)
		r.Get("/wagers/{id}", s.handleGetWager)
		r.Get("/wagers", s.handleListWagers)

		r.Get("/seeds/current", s.handleCurrentSeeds)
		r.Post("/seeds/rotate", s.handleRotateSeeds)
		r.Post("/seeds/reveal", s.handleRevealSeed)
		r.Post("/seeds/hash", s.handleSeedHash)

		r.Post("/verify", s.handleVerify)
		r.Get("/games", s.handleListGames)

		r.Post("/autobet", s.handleAutobet)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.Header().Set("X-Error-Type", engineErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(engineErr.Type)))
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(engineErr); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decode parses a JSON request body, reporting a validation failure on
// malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		EngineVersion: EngineVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
