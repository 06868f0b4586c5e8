// Package models defines the core data structures for MindGuide.
//
// It includes transcript, question, and decision types shared across the
// flow, store, and api modules, together with their validation rules.
package models

import (
	"errors"
)

// TurnRole identifies the author of a transcript turn.
type TurnRole string

const (
	// TurnRoleUser marks a turn authored by the participant.
	TurnRoleUser TurnRole = "user"
	// TurnRoleSystem marks a turn carrying a question the system asked.
	TurnRoleSystem TurnRole = "system"
)

// QuestionKind defines how a question expects its answer.
type QuestionKind string

const (
	// QuestionKindText expects a free-text answer.
	QuestionKindText QuestionKind = "text"
	// QuestionKindOptions expects one of a fixed list of choices.
	QuestionKindOptions QuestionKind = "options"
)

// Validation constants for input validation
const (
	// MaxAnswerLength defines the maximum allowed length for a submitted answer
	MaxAnswerLength = 4096
	// MaxTurnContentLength defines the maximum allowed length for transcript turn content
	MaxTurnContentLength = 8192
)

// Error variables for better error handling and testability
var (
	ErrInvalidTurnRole      = errors.New("turn role must be user or system")
	ErrEmptyTurnContent     = errors.New("turn content cannot be empty")
	ErrTurnContentTooLong   = errors.New("turn content exceeds maximum length")
	ErrEmptyQuestionID      = errors.New("question id cannot be empty")
	ErrEmptyQuestionText    = errors.New("question text cannot be empty")
	ErrInvalidQuestionKind  = errors.New("invalid question kind")
	ErrMissingOptions       = errors.New("options are required for options questions")
	ErrEmptyOptionLabel     = errors.New("option label cannot be empty")
	ErrEmptyOptionValue     = errors.New("option value cannot be empty")
	ErrEmptyRecommendation  = errors.New("recommendation is required")
	ErrEmptySteps           = errors.New("decision must contain at least one step")
	ErrEmptyAnswer          = errors.New("answer cannot be empty")
	ErrAnswerTooLong        = errors.New("answer exceeds maximum length")
)

// IsValidTurnRole checks if the given role is one of the two supported tags.
func IsValidTurnRole(r TurnRole) bool {
	return r == TurnRoleUser || r == TurnRoleSystem
}

// IsValidQuestionKind checks if the given question kind is supported.
func IsValidQuestionKind(k QuestionKind) bool {
	return k == QuestionKindText || k == QuestionKindOptions
}

// TranscriptTurn is one unit of transcript content, tagged by author.
// Turns are immutable once appended to a transcript.
type TranscriptTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// Validate checks a turn against the transcript invariants.
func (t *TranscriptTurn) Validate() error {
	if !IsValidTurnRole(t.Role) {
		return ErrInvalidTurnRole
	}
	if t.Content == "" {
		return ErrEmptyTurnContent
	}
	if len(t.Content) > MaxTurnContentLength {
		return ErrTurnContentTooLong
	}
	return nil
}

// Transcript is the append-only ordered log of conversation turns for one
// session. Insertion order is significant; it is never reordered or mutated
// in place.
type Transcript []TranscriptTurn

// Validate checks every turn in the transcript.
func (tr Transcript) Validate() error {
	for i := range tr {
		if err := tr[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UserTurns counts the user-authored turns in the transcript. The session
// orchestrator stops the questioning loop once this reaches the exchange
// limit.
func (tr Transcript) UserTurns() int {
	n := 0
	for i := range tr {
		if tr[i].Role == TurnRoleUser {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the transcript so callers can build
// an updated history without mutating the original.
func (tr Transcript) Clone() Transcript {
	if tr == nil {
		return nil
	}
	out := make(Transcript, len(tr))
	copy(out, tr)
	return out
}

// QuestionOption is one selectable choice for options-kind questions.
type QuestionOption struct {
	Label string `json:"label"` // display text shown to the user
	Value string `json:"value"` // value submitted when selected
}

// Question represents a single question produced per turn, superseded by the
// next question or by a Decision.
type Question struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Kind    QuestionKind     `json:"kind"`
	Options []QuestionOption `json:"options,omitempty"`
}

// Validate performs comprehensive validation on a Question structure.
func (q *Question) Validate() error {
	if q.ID == "" {
		return ErrEmptyQuestionID
	}
	if q.Text == "" {
		return ErrEmptyQuestionText
	}
	if !IsValidQuestionKind(q.Kind) {
		return ErrInvalidQuestionKind
	}
	if q.Kind == QuestionKindOptions {
		if len(q.Options) == 0 {
			return ErrMissingOptions
		}
		for _, opt := range q.Options {
			if opt.Label == "" {
				return ErrEmptyOptionLabel
			}
			if opt.Value == "" {
				return ErrEmptyOptionValue
			}
		}
	}
	return nil
}

// Decision is the terminal output of a completed session: a recommendation
// with action steps and optional resources.
type Decision struct {
	Recommendation string   `json:"recommendation"`
	Steps          []string `json:"steps"`
	Resources      []string `json:"resources,omitempty"`
}

// Validate performs comprehensive validation on a Decision structure.
func (d *Decision) Validate() error {
	if d.Recommendation == "" {
		return ErrEmptyRecommendation
	}
	if len(d.Steps) == 0 {
		return ErrEmptySteps
	}
	return nil
}

// ConversationRequest is the body of the stateless /question and /decision
// endpoints.
type ConversationRequest struct {
	ConversationHistory Transcript `json:"conversationHistory"`
}

// Validate checks the submitted conversation history.
func (r *ConversationRequest) Validate() error {
	return r.ConversationHistory.Validate()
}

// AnswerRequest is the body of the session answer endpoint.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// Validate checks the submitted answer.
func (r *AnswerRequest) Validate() error {
	if r.Answer == "" {
		return ErrEmptyAnswer
	}
	if len(r.Answer) > MaxAnswerLength {
		return ErrAnswerTooLong
	}
	return nil
}

// ErrorResponse is the error payload shape returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewError builds an ErrorResponse with just an error message.
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// NewErrorWithDetails builds an ErrorResponse carrying diagnostic details.
func NewErrorWithDetails(msg, details string) ErrorResponse {
	return ErrorResponse{Error: msg, Details: details}
}
