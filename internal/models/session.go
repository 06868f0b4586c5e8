// Package models defines session state structures for MindGuide.
package models

import (
	"errors"
	"time"
)

// SessionState represents the current state of a guidance session.
type SessionState string

const (
	// StateQuestioning means the session is presenting a question and can
	// accept an answer.
	StateQuestioning SessionState = "QUESTIONING"
	// StateAwaitingAI means an AI request is in flight; new submissions are
	// rejected until it completes.
	StateAwaitingAI SessionState = "AWAITING_AI"
	// StateDecided means the session produced its decision. Terminal until
	// an explicit reset.
	StateDecided SessionState = "DECIDED"
)

// ErrInvalidTransition indicates a session state change that the lifecycle
// does not permit.
var ErrInvalidTransition = errors.New("invalid session state transition")

// sessionTransitions enumerates the permitted state changes. Deriving
// progress from transcript length at render time is exactly what this
// table replaces.
var sessionTransitions = map[SessionState][]SessionState{
	StateQuestioning: {StateAwaitingAI},
	StateAwaitingAI:  {StateQuestioning, StateDecided},
	StateDecided:     {StateQuestioning}, // explicit reset only
}

// CanTransition reports whether moving from one session state to another is
// permitted by the lifecycle.
func CanTransition(from, to SessionState) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Session holds the complete state of one guidance session. Each browser
// session owns exactly one Session; nothing is shared across sessions.
type Session struct {
	ID              string       `json:"id"`
	State           SessionState `json:"state"`
	Transcript      Transcript   `json:"transcript"`
	CurrentQuestion *Question    `json:"question,omitempty"`
	Decision        *Decision    `json:"decision,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Transition moves the session to the given state, enforcing the lifecycle
// table. The UpdatedAt timestamp is refreshed on success.
func (s *Session) Transition(to SessionState) error {
	if !CanTransition(s.State, to) {
		return ErrInvalidTransition
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// Clone returns a deep copy of the session so store readers never observe
// concurrent mutation.
func (s *Session) Clone() *Session {
	out := *s
	out.Transcript = s.Transcript.Clone()
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		if q.Options != nil {
			q.Options = append([]QuestionOption(nil), q.Options...)
		}
		out.CurrentQuestion = &q
	}
	if s.Decision != nil {
		d := *s.Decision
		d.Steps = append([]string(nil), d.Steps...)
		if d.Resources != nil {
			d.Resources = append([]string(nil), d.Resources...)
		}
		out.Decision = &d
	}
	return &out
}
