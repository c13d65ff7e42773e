package api

import (
	"net/http"

	"github.com/ksen/caseflash/internal/models"
)

func (s *Server) handleRankedTopics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := s.AnalyticsService.RankedTopics(r.Context(), q.Get("sort"), q.Get("filter"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if stats == nil {
		stats = []models.TopicStat{}
	}
	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleRollups(w http.ResponseWriter, r *http.Request) {
	rollups, err := s.AnalyticsService.Rollups(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rollups)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	points, err := s.AnalyticsService.Timeline(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if points == nil {
		points = []models.TimelinePoint{}
	}
	respondJSON(w, r, http.StatusOK, points)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	heatmap, err := s.AnalyticsService.Heatmap(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, heatmap)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.AnalyticsService.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}
