package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
)

func ownerParam(r *http.Request) (string, error) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		return "", errors.NewValidationError("uid", "cannot be empty")
	}
	return uid, nil
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.HistoryFilter{
		OwnerID: uid,
		Topic:   r.URL.Query().Get("q"),
		Sort:    models.ParseSortMode(r.URL.Query().Get("sort")),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	log.Debug("listing history: owner=%s, q=%q, sort=%s", uid, filter.Topic, filter.Sort)
	records, err := s.History.Search(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleRecentHistory(w http.ResponseWriter, r *http.Request) {
	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.History.ListRecent(r.Context(), uid, s.RecentLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.History.GetResult(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result == nil {
		handleError(w, r, errors.NewNotFoundError("quiz result", id))
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.History.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("clearing history: owner=%s", uid)
	if err := s.History.ClearOwner(r.Context(), uid); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, err := ownerParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.History.Stats(r.Context(), uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
