package http

import (
	"net/http"

	"finledger/internal/core"
	"finledger/internal/log"
)

type progressRequest struct {
	Amount *float64 `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	views, err := s.ledger.Goals(r.Context())
	if err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := decodeJSON(w, r, &g); err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	added, err := s.ledger.AddGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.ledger.DeleteGoal(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Goal delete handled",
		log.FieldGoalID, id, "deleted", removed)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	if req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "amount is required"})
		return
	}
	g, err := s.ledger.UpdateGoalProgress(r.Context(), r.PathValue("id"), *req.Amount)
	if err != nil {
		writeError(w, r, log.OpGoal, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
