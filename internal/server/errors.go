// internal/server/errors.go
package server

import (
	"encoding/json"
	"net/http"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

// writeError renders err as {error, status}. Outside production the raw
// error text is added as diagnostic.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	body := models.ErrorResponse{
		Error:  apperrors.PublicMessage(err),
		Status: status,
	}
	if !s.cfg.App.IsProduction() {
		body.Diagnostic = diagnostic(err)
	}

	fields := map[string]interface{}{
		"requestId": middleware.GetReqID(r.Context()),
		"path":      r.URL.Path,
		"status":    status,
		"error":     err,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	writeJSON(w, status, body)
}

func diagnostic(err error) string {
	if stdErr, ok := apperrors.AsStandardError(err); ok && stdErr.Details != "" {
		return string(stdErr.Code) + ": " + stdErr.Details
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
