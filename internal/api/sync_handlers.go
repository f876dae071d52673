package api

import (
	"net/http"

	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
)

// handleStartSync loads a fresh reconciliation pass for the owner. The
// pass replaces any previous one for the same owner.
func (s *Server) handleStartSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("starting reconciliation pass: owner=%s", uid)
	pass, err := s.Sync.Load(r.Context(), uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.setPass(uid, pass)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"missing": pass.Items(),
	})
}

// handleSyncItems reads the current pass under an optional topic filter
// and sort mode.
func (s *Server) handleSyncItems(w http.ResponseWriter, r *http.Request) {
	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	pass, ok := s.pass(uid)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("sync pass", uid))
		return
	}

	pass.SetFilter(r.URL.Query().Get("q"))
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		pass.SetSort(models.ParseSortMode(sortStr))
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"missing":   pass.Items(),
		"remaining": pass.Remaining(),
	})
}

type adoptRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

func (s *Server) handleAdoptOne(w http.ResponseWriter, r *http.Request) {
	var req adoptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.OwnerID == "" || req.ID == "" {
		handleError(w, r, errors.NewValidationError("owner_id/id", "cannot be empty"))
		return
	}

	pass, ok := s.pass(req.OwnerID)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("sync pass", req.OwnerID))
		return
	}
	if err := pass.AdoptOne(r.Context(), req.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"remaining": pass.Remaining(),
	})
}

func (s *Server) handleAdoptAll(w http.ResponseWriter, r *http.Request) {
	var req adoptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.OwnerID == "" {
		handleError(w, r, errors.NewValidationError("owner_id", "cannot be empty"))
		return
	}

	pass, ok := s.pass(req.OwnerID)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("sync pass", req.OwnerID))
		return
	}

	adopted := pass.AdoptAll(r.Context())
	respondJSON(w, r, http.StatusOK, map[string]any{
		"adopted": adopted,
	})
}
