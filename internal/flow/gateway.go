// Package flow provides the conversation-to-decision orchestration for MindGuide.
//
// This file implements the AI gateway: it translates an internal transcript
// plus a fixed instruction prompt into a structured JSON result, hiding the
// external model's quirks from the question and decision services.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BTreeMap/MindGuide/internal/genai"
	"github.com/BTreeMap/MindGuide/internal/models"
)

// Error variables for better error handling and testability
var (
	// ErrMalformedReply indicates the model produced text that could not be
	// parsed into the requested JSON shape, or parsed but was missing
	// required fields. Callers substitute their fixed fallback value.
	ErrMalformedReply = errors.New("malformed model reply")
	// ErrNotConfigured indicates no GenAI client is available. Surfaced to
	// callers like a transport failure, never substituted.
	ErrNotConfigured = errors.New("GenAI client not configured")
)

// historySeedContent is prepended as a synthetic user turn when the
// transcript leads with a system-authored turn; the external chat protocol
// requires the first message to be user-authored.
const historySeedContent = "Hello"

// Gateway issues structured-reply requests against a GenAI client.
type Gateway struct {
	client genai.ClientInterface
}

// NewGateway creates a gateway over the given client. A nil client is
// permitted; every request then fails with ErrNotConfigured.
func NewGateway(client genai.ClientInterface) *Gateway {
	return &Gateway{client: client}
}

// RequestStructured sends the transcript plus instruction prompt to the
// model and returns the raw JSON object extracted from its reply, after
// verifying every required field is present.
//
// Transport failures propagate as-is. Unparseable or incomplete replies
// return ErrMalformedReply so call sites can substitute their fallback.
func (g *Gateway) RequestStructured(ctx context.Context, instruction string, transcript models.Transcript, requiredFields []string) (json.RawMessage, error) {
	if g == nil || g.client == nil {
		slog.Error("Gateway.RequestStructured: no GenAI client configured")
		return nil, ErrNotConfigured
	}

	history := translateHistory(transcript)
	text, err := g.client.GenerateWithHistory(ctx, history, instruction)
	if err != nil {
		if errors.Is(err, genai.ErrNoContent) {
			slog.Warn("Gateway.RequestStructured: model returned no content", "error", err)
			return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
		}
		slog.Error("Gateway.RequestStructured: transport failure", "error", err)
		return nil, err
	}
	slog.Debug("Gateway.RequestStructured: raw model reply", "reply", text)

	raw, ok := ExtractJSONObject(text)
	if !ok {
		// No balanced object span; try the whole text as JSON.
		raw = text
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		slog.Warn("Gateway.RequestStructured: failed to parse model reply as JSON", "error", err, "replyLength", len(text))
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if missing := missingFields(parsed, requiredFields); len(missing) > 0 {
		slog.Warn("Gateway.RequestStructured: model reply missing required fields", "missing", strings.Join(missing, ","))
		return nil, fmt.Errorf("%w: missing fields %s", ErrMalformedReply, strings.Join(missing, ", "))
	}

	return json.RawMessage(raw), nil
}

// translateHistory converts the internal transcript to the external chat
// shape: user turns map to the user role, system turns to the model role.
func translateHistory(transcript models.Transcript) []genai.Message {
	history := make([]genai.Message, 0, len(transcript)+1)
	if len(transcript) > 0 && transcript[0].Role != models.TurnRoleUser {
		history = append(history, genai.Message{Role: genai.RoleUser, Content: historySeedContent})
	}
	for _, turn := range transcript {
		role := genai.RoleUser
		if turn.Role == models.TurnRoleSystem {
			role = genai.RoleModel
		}
		history = append(history, genai.Message{Role: role, Content: turn.Content})
	}
	return history
}

// missingFields reports which required field names are absent from the
// parsed object. An explicit JSON null counts as absent.
func missingFields(parsed map[string]any, required []string) []string {
	var missing []string
	for _, field := range required {
		if v, ok := parsed[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	return missing
}
