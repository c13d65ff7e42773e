package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Post("/sessions", s.handleRecordSession)
	r.Get("/sessions", s.handleListSessions)

	r.Post("/questions", s.handleImportQuestions)
	r.Get("/questions/{id}", s.handleGetQuestion)
	r.Post("/questions/{id}/bookmark", s.handleBookmark)
	r.Delete("/questions/{id}/bookmark", s.handleUnbookmark)
	r.Post("/questions/{id}/mastery", s.handleGenerateMastery)

	r.Get("/review/due", s.handleDueItems)
	r.Post("/review/{cardID}/rate", s.handleRateCard)

	r.Get("/analytics/topics", s.handleRankedTopics)
	r.Get("/analytics/rollups", s.handleRollups)
	r.Get("/analytics/timeline", s.handleTimeline)
	r.Get("/analytics/heatmap", s.handleHeatmap)
	r.Get("/analytics/summary", s.handleSummary)

	r.Get("/state/export", s.handleExport)
	r.Post("/state/import", s.handleImport)
	r.Post("/state/reset", s.handleReset)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
