package api

import (
	"encoding/json"
	"net/http"

	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/services"
)

// Server wires the HTTP surface to the services.
type Server struct {
	SessionService   services.SessionService
	ReviewService    services.ReviewService
	AnalyticsService services.AnalyticsService
	LibraryService   services.LibraryService
	StateService     services.StateService
	DueLimit         int
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
