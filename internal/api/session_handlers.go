package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/session"
)

type createSessionRequest struct {
	OwnerID          string `json:"owner_id"`
	SourceKind       string `json:"source_kind"`
	SourceDescriptor string `json:"source_descriptor"`
	Text             string `json:"text"`
	NumQuestions     int    `json:"num_questions"`
	Difficulty       string `json:"difficulty"`
	Language         string `json:"language"`
	TimeLimitMs      int64  `json:"time_limit_ms"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.OwnerID == "" {
		handleError(w, r, errors.NewValidationError("owner_id", "cannot be empty"))
		return
	}

	kind := models.SourceKind(req.SourceKind)
	switch kind {
	case models.SourceDocument, models.SourceYouTube, models.SourceRegenerate:
	case "":
		kind = models.SourceDocument
	default:
		handleError(w, r, errors.NewValidationError("source_kind", "unknown value"))
		return
	}

	if req.NumQuestions <= 0 {
		req.NumQuestions = s.DefaultQuestions
	}
	if req.Difficulty == "" {
		req.Difficulty = s.DefaultDifficulty
	}
	if req.Language == "" {
		req.Language = s.DefaultLanguage
	}
	timeLimit := time.Duration(req.TimeLimitMs) * time.Millisecond
	if timeLimit <= 0 {
		timeLimit = time.Duration(req.NumQuestions) * s.TimePerQuestion
	}

	sess := session.New(session.Config{
		OwnerID:          req.OwnerID,
		SourceKind:       kind,
		SourceDescriptor: req.SourceDescriptor,
		Text:             req.Text,
		NumQuestions:     req.NumQuestions,
		Difficulty:       req.Difficulty,
		Language:         req.Language,
		TimeLimit:        timeLimit,
	}, s.Generator, s.History, s.Cloud, s.SubmitPool)

	log.Info("starting quiz session: owner=%s, questions=%d, budget=%v", req.OwnerID, req.NumQuestions, timeLimit)
	if err := sess.Start(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	s.addSession(sess)
	respondJSON(w, r, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.session(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return
	}
	respondJSON(w, r, http.StatusOK, sess.Snapshot())
}

type selectAnswerRequest struct {
	AnswerIndex int `json:"answer_index"`
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.session(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return
	}

	var req selectAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := sess.Select(req.AnswerIndex); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.session(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return
	}
	if err := sess.Submit(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.session(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return
	}
	if err := sess.Advance(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleExitSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.session(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return
	}
	sess.Exit()
	s.removeSession(id)
	respondJSON(w, r, http.StatusOK, sess.Snapshot())
}
