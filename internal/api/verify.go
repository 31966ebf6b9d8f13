package api

import (
	"net/http"

	"github.com/openwager/engine/internal/engine"
)

// handleVerify replays one outcome offline. Anyone holding the revealed
// server seed, the client seed and the nonce can call this (or run the
// same algorithm themselves) to confirm the engine did not cheat.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Seeds.Server == "" || req.Seeds.Client == "" {
		s.errorHandler.HandleValidationError(w, r, "seeds", "server and client seeds are required")
		return
	}
	if req.Nonce == 0 {
		s.errorHandler.HandleValidationError(w, r, "nonce", "nonce must be at least 1")
		return
	}

	g, ok := s.games.Get(req.Game)
	if !ok {
		s.errorHandler.write(w, r, http.StatusNotFound, EngineError{
			Type:    ErrTypeGameNotFound,
			Message: "unknown game: " + string(req.Game),
		})
		return
	}

	floats := engine.Floats(req.Seeds.Server, req.Seeds.Client, req.Nonce, 0, g.FloatCount(req.Params))
	outcome, err := g.Resolve(floats, req.Params)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, VerifyResponse{
		Nonce:         req.Nonce,
		Multiplier:    outcome.Multiplier,
		Final:         outcome.Final,
		State:         outcome.State,
		Details:       outcome.Details,
		Floats:        floats,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GamesResponse{
		Games:         s.games.List(),
		EngineVersion: EngineVersion,
	})
}
