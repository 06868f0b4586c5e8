package models

import (
	"errors"
	"strings"
	"testing"
)

func TestTranscriptTurnValidate(t *testing.T) {
	tests := []struct {
		name    string
		turn    TranscriptTurn
		wantErr error
	}{
		{"valid user turn", TranscriptTurn{Role: TurnRoleUser, Content: "internship"}, nil},
		{"valid system turn", TranscriptTurn{Role: TurnRoleSystem, Content: "What area?"}, nil},
		{"invalid role", TranscriptTurn{Role: "assistant", Content: "hi"}, ErrInvalidTurnRole},
		{"empty content", TranscriptTurn{Role: TurnRoleUser, Content: ""}, ErrEmptyTurnContent},
		{"content too long", TranscriptTurn{Role: TurnRoleUser, Content: strings.Repeat("a", MaxTurnContentLength+1)}, ErrTurnContentTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.turn.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranscriptUserTurns(t *testing.T) {
	tr := Transcript{
		{Role: TurnRoleSystem, Content: "q1"},
		{Role: TurnRoleUser, Content: "a1"},
		{Role: TurnRoleSystem, Content: "q2"},
		{Role: TurnRoleUser, Content: "a2"},
		{Role: TurnRoleSystem, Content: "q3"},
	}
	if got := tr.UserTurns(); got != 2 {
		t.Errorf("UserTurns() = %d, want 2", got)
	}
	if got := (Transcript{}).UserTurns(); got != 0 {
		t.Errorf("UserTurns() on empty transcript = %d, want 0", got)
	}
}

func TestTranscriptClone(t *testing.T) {
	tr := Transcript{{Role: TurnRoleUser, Content: "a1"}}
	clone := tr.Clone()
	clone = append(clone, TranscriptTurn{Role: TurnRoleUser, Content: "a2"})
	clone[0].Content = "changed"

	if len(tr) != 1 {
		t.Errorf("original transcript length changed: %d", len(tr))
	}
	if tr[0].Content != "a1" {
		t.Errorf("original transcript mutated: %q", tr[0].Content)
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		wantErr  error
	}{
		{"valid text question", Question{ID: "q1", Text: "Why?", Kind: QuestionKindText}, nil},
		{"valid options question", Question{ID: "q1", Text: "Pick", Kind: QuestionKindOptions, Options: []QuestionOption{{Label: "A", Value: "a"}}}, nil},
		{"missing id", Question{Text: "Why?", Kind: QuestionKindText}, ErrEmptyQuestionID},
		{"missing text", Question{ID: "q1", Kind: QuestionKindText}, ErrEmptyQuestionText},
		{"invalid kind", Question{ID: "q1", Text: "Why?", Kind: "multi"}, ErrInvalidQuestionKind},
		{"options kind without options", Question{ID: "q1", Text: "Pick", Kind: QuestionKindOptions}, ErrMissingOptions},
		{"option without label", Question{ID: "q1", Text: "Pick", Kind: QuestionKindOptions, Options: []QuestionOption{{Value: "a"}}}, ErrEmptyOptionLabel},
		{"option without value", Question{ID: "q1", Text: "Pick", Kind: QuestionKindOptions, Options: []QuestionOption{{Label: "A"}}}, ErrEmptyOptionValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecisionValidate(t *testing.T) {
	valid := Decision{Recommendation: "Do the thing", Steps: []string{"step 1"}}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid decision, got %v", err)
	}

	noRec := Decision{Steps: []string{"step 1"}}
	if err := noRec.Validate(); !errors.Is(err, ErrEmptyRecommendation) {
		t.Errorf("expected ErrEmptyRecommendation, got %v", err)
	}

	noSteps := Decision{Recommendation: "Do the thing"}
	if err := noSteps.Validate(); !errors.Is(err, ErrEmptySteps) {
		t.Errorf("expected ErrEmptySteps, got %v", err)
	}
}

func TestAnswerRequestValidate(t *testing.T) {
	ok := AnswerRequest{Answer: "internship"}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected valid answer, got %v", err)
	}

	empty := AnswerRequest{}
	if err := empty.Validate(); !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("expected ErrEmptyAnswer, got %v", err)
	}

	long := AnswerRequest{Answer: strings.Repeat("a", MaxAnswerLength+1)}
	if err := long.Validate(); !errors.Is(err, ErrAnswerTooLong) {
		t.Errorf("expected ErrAnswerTooLong, got %v", err)
	}
}

func TestConversationRequestValidate(t *testing.T) {
	req := ConversationRequest{ConversationHistory: Transcript{
		{Role: TurnRoleSystem, Content: "q"},
		{Role: "bot", Content: "a"},
	}}
	if err := req.Validate(); !errors.Is(err, ErrInvalidTurnRole) {
		t.Errorf("expected ErrInvalidTurnRole, got %v", err)
	}
}
