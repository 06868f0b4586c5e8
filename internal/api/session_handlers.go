// Package api provides session management handlers for MindGuide endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BTreeMap/MindGuide/internal/models"
	"github.com/BTreeMap/MindGuide/internal/store"
)

// createSessionHandler handles POST /sessions.
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orchestrator.CreateSession(r.Context())
	if err != nil {
		slog.Error("Server.createSessionHandler: failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, sess)
}

// getSessionHandler handles GET /sessions/{sessionID}.
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.orchestrator.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found", err)
			return
		}
		slog.Error("Server.getSessionHandler: failed to load session", "error", err, "sessionID", id)
		writeError(w, http.StatusInternalServerError, "Failed to load session", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, sess)
}

// answerHandler handles POST /sessions/{sessionID}/answers: it submits one
// answer to the session orchestrator and returns the updated session.
func (s *Server) answerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	id := chi.URLParam(r, "sessionID")
	slog.Debug("Server.answerHandler: processing answer", "sessionID", id)

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.answerHandler: failed to decode JSON", "error", err, "sessionID", id)
		writeError(w, http.StatusBadRequest, "Invalid JSON format", err)
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.answerHandler: validation failed", "error", err, "sessionID", id)
		writeError(w, http.StatusBadRequest, "Invalid answer", err)
		return
	}

	sess, err := s.orchestrator.SubmitAnswer(r.Context(), id, req.Answer)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found", err)
			return
		}
		status := statusForFlowError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Server.answerHandler: failed to process answer", "error", err, "sessionID", id)
		}
		writeError(w, status, "Failed to process answer", err)
		return
	}

	slog.Info("Server.answerHandler: answer processed", "sessionID", id, "state", sess.State)
	writeJSONResponse(w, http.StatusOK, sess)
}

// resetSessionHandler handles POST /sessions/{sessionID}/reset: it clears
// all session state back to the initial question.
func (s *Server) resetSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.orchestrator.ResetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found", err)
			return
		}
		status := statusForFlowError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Server.resetSessionHandler: failed to reset session", "error", err, "sessionID", id)
		}
		writeError(w, status, "Failed to reset session", err)
		return
	}

	slog.Info("Server.resetSessionHandler: session reset", "sessionID", id)
	writeJSONResponse(w, http.StatusOK, sess)
}
