package api

import (
	"io"
	"net/http"

	"github.com/ksen/caseflash/internal/errors"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.StateService.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="caseflash-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read import payload"))
		return
	}

	if err := s.StateService.Import(r.Context(), data); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.StateService.Reset(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}
