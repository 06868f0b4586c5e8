package flow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/BTreeMap/MindGuide/internal/genai"
	"github.com/BTreeMap/MindGuide/internal/models"
)

func TestRequestStructured_ExtractsEmbeddedJSON(t *testing.T) {
	mock := genai.NewMockClient(`Sure! Here is the JSON: {"id":"q2","text":"...","kind":"text"}`)
	gateway := NewGateway(mock)

	raw, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id", "text", "kind"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("returned span is not valid JSON: %v", err)
	}
	if parsed["id"] != "q2" {
		t.Errorf("expected id 'q2', got %v", parsed["id"])
	}
}

func TestRequestStructured_WholeTextFallbackParse(t *testing.T) {
	// An unbalanced lead-in brace forces the whole-text parse path; the
	// whole text here is itself valid JSON with surrounding whitespace.
	mock := genai.NewMockClient("\n  {\"recommendation\":\"r\",\"steps\":[\"s\"]}  \n")
	gateway := NewGateway(mock)

	raw, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"recommendation", "steps"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("result not valid JSON: %v", err)
	}
}

func TestRequestStructured_ProseWithoutBraces(t *testing.T) {
	mock := genai.NewMockClient("I cannot produce structured output right now, apologies.")
	gateway := NewGateway(mock)

	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id"})
	if !errors.Is(err, ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply, got %v", err)
	}
}

func TestRequestStructured_MissingRequiredField(t *testing.T) {
	mock := genai.NewMockClient(`{"id":"q2","text":"hello"}`)
	gateway := NewGateway(mock)

	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id", "text", "kind"})
	if !errors.Is(err, ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply for missing field, got %v", err)
	}
}

func TestRequestStructured_NullFieldCountsAsAbsent(t *testing.T) {
	mock := genai.NewMockClient(`{"id":null,"text":"hello","kind":"text"}`)
	gateway := NewGateway(mock)

	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id", "text", "kind"})
	if !errors.Is(err, ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply for null field, got %v", err)
	}
}

func TestRequestStructured_TransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("connection refused")
	mock := genai.NewMockClientWithError(transportErr)
	gateway := NewGateway(mock)

	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id"})
	if !errors.Is(err, transportErr) {
		t.Errorf("expected transport error to propagate, got %v", err)
	}
	if errors.Is(err, ErrMalformedReply) {
		t.Error("transport error must not be classified as malformed reply")
	}
}

func TestRequestStructured_EmptyReplyIsMalformed(t *testing.T) {
	mock := genai.NewMockClientWithError(genai.ErrNoContent)
	gateway := NewGateway(mock)

	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id"})
	if !errors.Is(err, ErrMalformedReply) {
		t.Errorf("expected empty reply to be malformed, got %v", err)
	}
}

func TestRequestStructured_NoClientConfigured(t *testing.T) {
	gateway := NewGateway(nil)
	_, err := gateway.RequestStructured(context.Background(), "prompt", nil, []string{"id"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTranslateHistory_RoleMapping(t *testing.T) {
	transcript := models.Transcript{
		{Role: models.TurnRoleUser, Content: "internship"},
		{Role: models.TurnRoleSystem, Content: "What timeline?"},
		{Role: models.TurnRoleUser, Content: "this summer"},
	}

	history := translateHistory(transcript)
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if history[0].Role != genai.RoleUser {
		t.Errorf("expected user role, got %s", history[0].Role)
	}
	if history[1].Role != genai.RoleModel {
		t.Errorf("expected system turn to map to model role, got %s", history[1].Role)
	}
}

func TestTranslateHistory_SeedsLeadingUserTurn(t *testing.T) {
	transcript := models.Transcript{
		{Role: models.TurnRoleSystem, Content: "What area?"},
		{Role: models.TurnRoleUser, Content: "internship"},
	}

	history := translateHistory(transcript)
	if len(history) != 3 {
		t.Fatalf("expected synthetic turn plus 2 messages, got %d", len(history))
	}
	if history[0].Role != genai.RoleUser || history[0].Content != historySeedContent {
		t.Errorf("expected synthetic leading user turn, got %+v", history[0])
	}
	if history[1].Role != genai.RoleModel {
		t.Errorf("expected original system turn second, got %+v", history[1])
	}
}

func TestTranslateHistory_EmptyTranscript(t *testing.T) {
	if history := translateHistory(nil); len(history) != 0 {
		t.Errorf("expected empty history, got %d messages", len(history))
	}
}

func TestRequestStructured_DoesNotMutateTranscript(t *testing.T) {
	transcript := models.Transcript{
		{Role: models.TurnRoleSystem, Content: "What area?"},
		{Role: models.TurnRoleUser, Content: "internship"},
	}
	mock := genai.NewMockClient(`{"id":"q2","text":"t","kind":"text"}`)
	gateway := NewGateway(mock)

	if _, err := gateway.RequestStructured(context.Background(), "prompt", transcript, []string{"id"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transcript) != 2 || transcript[0].Content != "What area?" {
		t.Error("transcript was mutated by the gateway")
	}
}
