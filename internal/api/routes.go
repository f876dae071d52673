package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/select", s.handleSelectAnswer)
		r.Post("/sessions/{id}/submit", s.handleSubmitAnswer)
		r.Post("/sessions/{id}/advance", s.handleAdvance)
		r.Post("/sessions/{id}/exit", s.handleExitSession)

		r.Get("/history", s.handleListHistory)
		r.Get("/history/recent", s.handleRecentHistory)
		r.Get("/history/{id}/result", s.handleGetResult)
		r.Delete("/history/{id}", s.handleDeleteRecord)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/stats", s.handleStats)

		r.Post("/sync", s.handleStartSync)
		r.Get("/sync", s.handleSyncItems)
		r.Post("/sync/adopt", s.handleAdoptOne)
		r.Post("/sync/adopt-all", s.handleAdoptAll)
	})

	return r
}
