package api

import (
	"net/http"

	"github.com/openwager/engine/internal/autobet"
)

// AutobetRequest runs a scripted dice session for the user.
type AutobetRequest struct {
	UserID  string `json:"user_id"`
	Script  string `json:"script"`
	MaxBets int    `json:"max_bets,omitempty"`
}

// AutobetResponse is the completed session report.
type AutobetResponse struct {
	Session       *autobet.Session `json:"session"`
	EngineVersion string           `json:"engine_version"`
}

func (s *Server) handleAutobet(w http.ResponseWriter, r *http.Request) {
	var req AutobetRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}
	if req.Script == "" {
		s.errorHandler.HandleValidationError(w, r, "script", "script is required")
		return
	}

	session, err := s.runner.Run(r.Context(), req.UserID, autobet.Options{
		Script:  req.Script,
		MaxBets: req.MaxBets,
	})
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AutobetResponse{
		Session:       session,
		EngineVersion: EngineVersion,
	})
}
