package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/models"
)

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var rec models.SessionRecord
	if err := decodeJSON(r, &rec); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid session payload: "+err.Error()))
		return
	}

	saved, err := s.SessionService.RecordSession(r.Context(), rec)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, saved)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.SessionFilter{
		Specialty:  q.Get("specialty"),
		ExamType:   q.Get("exam_type"),
		Complexity: q.Get("complexity"),
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be RFC3339"))
			return
		}
		filter.Since = &since
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	sessions, err := s.SessionService.ListSessions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	respondJSON(w, r, http.StatusOK, sessions)
}
