package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openwager/engine/internal/ledger"
	"github.com/openwager/engine/internal/store"
	"github.com/openwager/engine/internal/wager"
)

// publicWager strips the stored game state from an active wager: it
// holds the hidden layout (mine positions, the shuffled road, the
// dealer's future cards), which must stay secret until settlement.
func publicWager(w *wager.Wager) *wager.Wager {
	if w == nil || !w.Active {
		return w
	}
	clone := *w
	clone.State = nil
	return &clone
}

func (s *Server) wagerResponse(res *ledger.Result) WagerResponse {
	return WagerResponse{
		Wager:         publicWager(res.Wager),
		Multiplier:    res.Outcome.Multiplier,
		Final:         res.Outcome.Final,
		Details:       res.Outcome.Details,
		EngineVersion: EngineVersion,
	}
}

func (s *Server) handlePlaceWager(w http.ResponseWriter, r *http.Request) {
	var req PlaceWagerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	res, err := s.ledger.PlaceWager(r.Context(), req.UserID, req.Game, req.BetAmountCents, req.Params)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.wagerResponse(res))
}

func (s *Server) handleAdvanceWager(w http.ResponseWriter, r *http.Request) {
	var req AdvanceWagerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	res, err := s.ledger.Advance(r.Context(), req.UserID, req.Params)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.wagerResponse(res))
}

func (s *Server) handleCashOut(w http.ResponseWriter, r *http.Request) {
	var req CashOutRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	res, err := s.ledger.CashOut(r.Context(), req.UserID)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.wagerResponse(res))
}

func (s *Server) handleActiveWager(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}

	active, err := s.ledger.ActiveWager(r.Context(), userID)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, WagerResponse{
		Wager:         publicWager(active),
		Final:         false,
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleGetWager(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := s.ledger.Wager(r.Context(), id)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, WagerResponse{
		Wager:         publicWager(found),
		Multiplier:    0,
		Final:         !found.Active,
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleListWagers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.errorHandler.HandleValidationError(w, r, "user_id", "user id is required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	list, err := s.ledger.History(r.Context(), store.WagersQuery{
		UserID:  userID,
		Game:    r.URL.Query().Get("game"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	for i := range list.Wagers {
		if list.Wagers[i].Active {
			list.Wagers[i].State = nil
		}
	}
	s.writeJSON(w, http.StatusOK, list)
}
