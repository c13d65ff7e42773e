package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/srs"
)

func (s *Server) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	var questions []models.Question
	if err := decodeJSON(r, &questions); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid question payload: "+err.Error()))
		return
	}

	count, err := s.LibraryService.ImportQuestions(r.Context(), questions)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]int{"imported": count})
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.LibraryService.GetQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, q)
}

func (s *Server) handleBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.ReviewService.Bookmark(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleUnbookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.ReviewService.Unbookmark(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleGenerateMastery(w http.ResponseWriter, r *http.Request) {
	var provided []models.MasteryCard
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &provided); err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid mastery payload: "+err.Error()))
			return
		}
	}

	cards, err := s.ReviewService.GenerateMastery(r.Context(), chi.URLParam(r, "id"), provided)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleDueItems(w http.ResponseWriter, r *http.Request) {
	limit := s.DueLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	due, err := s.ReviewService.DueItems(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if due == nil {
		due = []srs.DueItem{}
	}
	respondJSON(w, r, http.StatusOK, due)
}

func (s *Server) handleRateCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating string `json:"rating"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid rating payload: "+err.Error()))
		return
	}

	card, err := s.ReviewService.Rate(r.Context(), chi.URLParam(r, "cardID"), body.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}
