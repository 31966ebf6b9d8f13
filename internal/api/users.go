package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openwager/engine/internal/store"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		s.errorHandler.HandleValidationError(w, r, "id", "user id is required")
		return
	}
	if req.BalanceCents < 0 {
		s.errorHandler.HandleValidationError(w, r, "balance_cents", "starting balance cannot be negative")
		return
	}

	user := &store.User{ID: req.ID, BalanceCents: req.BalanceCents}
	if err := s.db.CreateUser(r.Context(), user); err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, BalanceResponse{
		UserID:       user.ID,
		BalanceCents: user.BalanceCents,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		s.errorHandler.HandleDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BalanceResponse{
		UserID:       user.ID,
		BalanceCents: user.BalanceCents,
	})
}
