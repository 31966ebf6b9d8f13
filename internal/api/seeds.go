package api

import (
	"net/http"

	"github.com/openwager/engine/internal/seeds"
)

func (s *Server) handleCurrentSeeds(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	st, err := s.chain.Current(r.Context(), userID)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seedStateView(st, false))
}

func (s *Server) handleRotateSeeds(w http.ResponseWriter, r *http.Request) {
	var req RotateSeedsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	revealed, current, err := s.chain.Rotate(r.Context(), req.UserID, req.ClientSeed)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RotateSeedsResponse{
		Revealed: seedStateView(revealed, true),
		Current:  seedStateView(current, false),
	})
}

func (s *Server) handleRevealSeed(w http.ResponseWriter, r *http.Request) {
	var req RevealSeedRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}
	if req.ServerSeedHash == "" {
		s.errorHandler.HandleValidationError(w, r, "server_seed_hash", "server seed hash is required")
		return
	}

	st, err := s.chain.Reveal(r.Context(), req.UserID, req.ServerSeedHash)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seedStateView(st, true))
}

func (s *Server) handleSeedHash(w http.ResponseWriter, r *http.Request) {
	var req SeedHashRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ServerSeed == "" {
		s.errorHandler.HandleValidationError(w, r, "server_seed", "server seed is required")
		return
	}
	s.writeJSON(w, http.StatusOK, SeedHashResponse{
		Hash:          seeds.Hash(req.ServerSeed),
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}
