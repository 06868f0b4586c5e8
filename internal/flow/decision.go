// Package flow provides the conversation-to-decision orchestration for MindGuide.
//
// This file implements the final-decision service on top of the AI gateway.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/BTreeMap/MindGuide/internal/models"
)

// decisionInstructionPrompt asks the model for the final recommendation as a
// single JSON object.
const decisionInstructionPrompt = `You are an AI assistant that helps users make decisions about their personal or professional growth.
Based on the entire conversation, generate a final recommendation for the user.
The decision should be actionable, specific, and tailored to the user's needs and circumstances.

Respond with one JSON object in exactly this format:
{
  "recommendation": "A concise summary of your recommendation",
  "steps": ["Step 1 description", "Step 2 description", ...],
  "resources": ["Resource 1", "Resource 2", ...] (optional)
}

The steps should be practical actions the user can take to implement your recommendation.
The resources should be helpful materials, tools, or references that can assist the user.
Respond with valid JSON only, no additional text.`

// decisionRequiredFields is the presence-of-field contract for a decision
// reply. Resources are optional.
var decisionRequiredFields = []string{"recommendation", "steps"}

// FallbackRecommendation is the fixed recommendation substituted when the
// model's reply cannot be used. Tests assert on it; keep it stable.
const FallbackRecommendation = "Focus on one concrete goal from our conversation and build a simple weekly plan around it."

// FallbackDecision returns the fixed generic decision substituted when the
// model's reply cannot be used. The value is deterministic and independent
// of whatever malformed output triggered it.
func FallbackDecision() *models.Decision {
	return &models.Decision{
		Recommendation: FallbackRecommendation,
		Steps: []string{
			"Write down the single outcome you want to achieve in the next month.",
			"Break it into weekly actions you can finish in under two hours each.",
			"Schedule a fixed time slot each week to work on it.",
			"Review your progress every Sunday and adjust the next week's actions.",
		},
		Resources: []string{
			"A habit tracker or simple spreadsheet for weekly reviews",
			"An accountability partner, mentor, or study group",
			"Introductory material on goal setting such as SMART goals",
		},
	}
}

// DecisionService produces the terminal decision for a completed transcript.
type DecisionService struct {
	gateway *Gateway
}

// NewDecisionService creates a decision service over the given gateway.
func NewDecisionService(gateway *Gateway) *DecisionService {
	return &DecisionService{gateway: gateway}
}

// FinalDecision asks the model for the session's final recommendation. The
// passed transcript is neither mutated nor retained. Malformed model output
// degrades to the fixed fallback decision; transport failures propagate to
// the caller.
func (s *DecisionService) FinalDecision(ctx context.Context, transcript models.Transcript) (*models.Decision, error) {
	raw, err := s.gateway.RequestStructured(ctx, decisionInstructionPrompt, transcript, decisionRequiredFields)
	if err != nil {
		if errors.Is(err, ErrMalformedReply) {
			slog.Warn("DecisionService.FinalDecision: substituting fallback decision", "error", err)
			return FallbackDecision(), nil
		}
		return nil, err
	}

	var d models.Decision
	if err := json.Unmarshal(raw, &d); err != nil {
		slog.Warn("DecisionService.FinalDecision: reply did not decode into a decision, substituting fallback", "error", err)
		return FallbackDecision(), nil
	}
	if err := d.Validate(); err != nil {
		slog.Warn("DecisionService.FinalDecision: decoded decision failed validation, substituting fallback", "error", err)
		return FallbackDecision(), nil
	}

	slog.Debug("DecisionService.FinalDecision: produced decision", "steps", len(d.Steps), "resources", len(d.Resources))
	return &d, nil
}
