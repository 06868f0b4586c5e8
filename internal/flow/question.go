// Package flow provides the conversation-to-decision orchestration for MindGuide.
//
// This file implements the next-question service on top of the AI gateway.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/BTreeMap/MindGuide/internal/models"
)

// questionInstructionPrompt asks the model for the next follow-up question
// as a single JSON object.
const questionInstructionPrompt = `You are an AI assistant that helps users make decisions about their personal or professional growth by asking relevant follow-up questions.
Based on the conversation so far, generate the single next question to ask the user.
The question should help guide the user towards making a decision. Focus on understanding their needs, goals, constraints, and preferences.

Respond with one JSON object in exactly this format:
{
  "id": "unique-id",
  "text": "The question text",
  "kind": "text" or "options",
  "options": [{"label": "Option display text", "value": "option-value"}, ...] (only when kind is "options")
}

The options should be relevant to the question and help the user provide a structured response.
For open-ended questions, use kind "text".
Respond with valid JSON only, no additional text.`

// questionRequiredFields is the presence-of-field contract for a question
// reply. Options are required only for options-kind questions, which the
// typed validation covers.
var questionRequiredFields = []string{"id", "text", "kind"}

// Fallback question literals. Tests assert on these values; keep them stable.
const (
	FallbackQuestionID   = "fallback-question"
	FallbackQuestionText = "Could you tell me a bit more about what you are hoping to achieve?"
)

// FallbackQuestion returns the fixed clarifying question substituted when
// the model's reply cannot be used. The value is deterministic and
// independent of whatever malformed output triggered it.
func FallbackQuestion() *models.Question {
	return &models.Question{
		ID:   FallbackQuestionID,
		Text: FallbackQuestionText,
		Kind: models.QuestionKindText,
	}
}

// QuestionService produces the next question for a transcript.
type QuestionService struct {
	gateway *Gateway
}

// NewQuestionService creates a question service over the given gateway.
func NewQuestionService(gateway *Gateway) *QuestionService {
	return &QuestionService{gateway: gateway}
}

// NextQuestion asks the model for the next question to present. The passed
// transcript is neither mutated nor retained. Malformed model output
// degrades to the fixed fallback question; transport failures propagate to
// the caller.
func (s *QuestionService) NextQuestion(ctx context.Context, transcript models.Transcript) (*models.Question, error) {
	raw, err := s.gateway.RequestStructured(ctx, questionInstructionPrompt, transcript, questionRequiredFields)
	if err != nil {
		if errors.Is(err, ErrMalformedReply) {
			slog.Warn("QuestionService.NextQuestion: substituting fallback question", "error", err)
			return FallbackQuestion(), nil
		}
		return nil, err
	}

	var q models.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		slog.Warn("QuestionService.NextQuestion: reply did not decode into a question, substituting fallback", "error", err)
		return FallbackQuestion(), nil
	}
	if err := q.Validate(); err != nil {
		slog.Warn("QuestionService.NextQuestion: decoded question failed validation, substituting fallback", "error", err, "questionID", q.ID)
		return FallbackQuestion(), nil
	}

	slog.Debug("QuestionService.NextQuestion: produced question", "questionID", q.ID, "kind", q.Kind)
	return &q, nil
}
