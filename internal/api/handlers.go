// Package api provides HTTP handlers for MindGuide endpoints.
//
// This file implements the stateless conversation routes: a transcript goes
// in, a question or decision comes out.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BTreeMap/MindGuide/internal/flow"
	"github.com/BTreeMap/MindGuide/internal/models"
)

// questionHandler handles POST /question: it returns the next question for
// the submitted conversation history.
func (s *Server) questionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.questionHandler: processing question request", "path", r.URL.Path)

	var req models.ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.questionHandler: failed to decode JSON", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON format", err)
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.questionHandler: validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid conversation history", err)
		return
	}

	question, err := s.questions.NextQuestion(r.Context(), req.ConversationHistory)
	if err != nil {
		slog.Error("Server.questionHandler: failed to generate question", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process question", err)
		return
	}

	slog.Info("Server.questionHandler: question generated", "questionID", question.ID, "turns", len(req.ConversationHistory))
	writeJSONResponse(w, http.StatusOK, question)
}

// decisionHandler handles POST /decision: it returns the final decision for
// the submitted conversation history.
func (s *Server) decisionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.decisionHandler: processing decision request", "path", r.URL.Path)

	var req models.ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.decisionHandler: failed to decode JSON", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON format", err)
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.decisionHandler: validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid conversation history", err)
		return
	}

	decision, err := s.decisions.FinalDecision(r.Context(), req.ConversationHistory)
	if err != nil {
		slog.Error("Server.decisionHandler: failed to generate decision", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate decision", err)
		return
	}

	slog.Info("Server.decisionHandler: decision generated", "steps", len(decision.Steps), "turns", len(req.ConversationHistory))
	writeJSONResponse(w, http.StatusOK, decision)
}

// statusForFlowError maps flow/store errors to HTTP status codes shared by
// the session handlers.
func statusForFlowError(err error) int {
	switch {
	case errors.Is(err, flow.ErrRequestInFlight), errors.Is(err, flow.ErrSessionDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
