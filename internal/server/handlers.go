// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/models"
	scholarshipchat "scholarship-workers/internal/workers/ai-conversation/scholarship-chat"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	req, err := s.decodeChatRequest(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.GetDuration(s.cfg.Server.RequestTimeoutMs))
	defer cancel()

	resp, err := s.chat.Execute(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeChatRequest checks the body against the registered chat schema, then
// the struct tags.
func (s *Server) decodeChatRequest(body []byte) (*models.ChatRequest, error) {
	result, err := validation.ValidateTaskInput(scholarshipchat.TaskType, body)
	if err != nil {
		return nil, apperrors.NewInvalidRequestBodyError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Summary())
	}

	var req models.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewInvalidRequestBodyError(fmt.Errorf("parse body: %w", err))
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, apperrors.NewInvalidInputError("message is required")
	}
	return &req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	failures := database.CheckAll(r.Context(), readinessTimeout, s.checks...)
	if len(failures) > 0 {
		s.logger.Warn("readiness check failed", map[string]interface{}{"failures": failures})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"failures": failures,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
