// Package flow provides the conversation-to-decision orchestration for MindGuide.
//
// This file implements the session orchestrator: an explicit state machine
// that appends answers to the transcript, decides whether to request another
// question or the final decision, and enforces one in-flight AI request per
// session.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BTreeMap/MindGuide/internal/models"
	"github.com/BTreeMap/MindGuide/internal/store"
	"github.com/google/uuid"
)

// MaxUserTurns is the number of user answers after which the session stops
// asking questions and requests the final decision.
const MaxUserTurns = 5

// Error variables for better error handling and testability
var (
	// ErrRequestInFlight indicates the session already has an outstanding AI
	// request; new submissions are rejected, not queued.
	ErrRequestInFlight = errors.New("a request is already in flight for this session")
	// ErrSessionDecided indicates the session reached its terminal decision
	// and only an explicit reset can restart it.
	ErrSessionDecided = errors.New("session already decided")
)

// InitialQuestion returns the hardcoded options question that seeds every
// session. It is never sent to the AI gateway.
func InitialQuestion() *models.Question {
	return &models.Question{
		ID:   "initial",
		Text: "What area are you focusing on right now for your personal or professional growth?",
		Kind: models.QuestionKindOptions,
		Options: []models.QuestionOption{
			{Label: "Internship Planning", Value: "internship"},
			{Label: "Skill Development", Value: "skill"},
			{Label: "Career Growth", Value: "career"},
			{Label: "Project Execution", Value: "project"},
		},
	}
}

// Orchestrator drives guidance sessions through the
// QUESTIONING -> AWAITING_AI -> QUESTIONING|DECIDED lifecycle.
type Orchestrator struct {
	mu        sync.Mutex // serializes the load-and-mark step of a submission
	st        store.Store
	questions *QuestionService
	decisions *DecisionService
}

// NewOrchestrator creates an orchestrator with its dependencies.
func NewOrchestrator(st store.Store, questions *QuestionService, decisions *DecisionService) *Orchestrator {
	return &Orchestrator{st: st, questions: questions, decisions: decisions}
}

// CreateSession starts a new session in the QUESTIONING state with an empty
// transcript and the hardcoded initial question.
func (o *Orchestrator) CreateSession(ctx context.Context) (*models.Session, error) {
	now := time.Now()
	sess := &models.Session{
		ID:              uuid.NewString(),
		State:           models.StateQuestioning,
		Transcript:      models.Transcript{},
		CurrentQuestion: InitialQuestion(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := o.st.SaveSession(sess); err != nil {
		slog.Error("Orchestrator.CreateSession: failed to save session", "error", err)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("Orchestrator.CreateSession: session created", "sessionID", sess.ID)
	return sess, nil
}

// GetSession returns the current state of a session.
func (o *Orchestrator) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return o.st.GetSession(id)
}

// SubmitAnswer processes one answer submission:
//
//  1. Rejects the submission unless the session is QUESTIONING.
//  2. Appends a system turn carrying the answered question's text, then a
//     user turn carrying the answer, to a clone of the transcript.
//  3. Requests the final decision once the user-turn count reaches
//     MaxUserTurns, otherwise the next question.
//
// The updated transcript is committed only when the AI call succeeds; a
// transport failure restores QUESTIONING with the stored transcript
// unchanged, so a retry does not duplicate turns.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, id, answer string) (*models.Session, error) {
	sess, err := o.beginExchange(id)
	if err != nil {
		return nil, err
	}

	answered := sess.CurrentQuestion
	updated := sess.Transcript.Clone()
	if answered != nil {
		updated = append(updated, models.TranscriptTurn{Role: models.TurnRoleSystem, Content: answered.Text})
	}
	updated = append(updated, models.TranscriptTurn{Role: models.TurnRoleUser, Content: answer})

	userTurns := updated.UserTurns()
	slog.Debug("Orchestrator.SubmitAnswer: transcript updated", "sessionID", id, "userTurns", userTurns)

	if userTurns >= MaxUserTurns {
		return o.decide(ctx, sess, updated)
	}

	question, err := o.questions.NextQuestion(ctx, updated)
	if err != nil {
		o.abortExchange(sess)
		return nil, err
	}
	if question == nil {
		// Stopping condition safety net: never leave the user stuck
		// without a question or a decision.
		slog.Warn("Orchestrator.SubmitAnswer: question service yielded no question, requesting decision", "sessionID", id)
		return o.decide(ctx, sess, updated)
	}

	sess.Transcript = updated
	sess.CurrentQuestion = question
	if err := sess.Transition(models.StateQuestioning); err != nil {
		return nil, err
	}
	if err := o.st.SaveSession(sess); err != nil {
		slog.Error("Orchestrator.SubmitAnswer: failed to save session", "error", err, "sessionID", id)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("Orchestrator.SubmitAnswer: next question ready", "sessionID", id, "questionID", question.ID, "userTurns", userTurns)
	return sess, nil
}

// ResetSession returns the session to its initial state: empty transcript,
// initial question, no decision. Rejected while a request is in flight.
func (o *Orchestrator) ResetSession(ctx context.Context, id string) (*models.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.st.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.State == models.StateAwaitingAI {
		return nil, ErrRequestInFlight
	}

	sess.State = models.StateQuestioning
	sess.Transcript = models.Transcript{}
	sess.CurrentQuestion = InitialQuestion()
	sess.Decision = nil
	sess.UpdatedAt = time.Now()
	if err := o.st.SaveSession(sess); err != nil {
		slog.Error("Orchestrator.ResetSession: failed to save session", "error", err, "sessionID", id)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("Orchestrator.ResetSession: session reset", "sessionID", id)
	return sess, nil
}

// beginExchange loads the session and marks it AWAITING_AI under the
// orchestrator lock, so at most one exchange runs per session. The AI call
// itself executes without any lock held.
func (o *Orchestrator) beginExchange(id string) (*models.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, err := o.st.GetSession(id)
	if err != nil {
		return nil, err
	}
	switch sess.State {
	case models.StateAwaitingAI:
		slog.Warn("Orchestrator.beginExchange: submission rejected, request in flight", "sessionID", id)
		return nil, ErrRequestInFlight
	case models.StateDecided:
		slog.Warn("Orchestrator.beginExchange: submission rejected, session decided", "sessionID", id)
		return nil, ErrSessionDecided
	}
	if err := sess.Transition(models.StateAwaitingAI); err != nil {
		return nil, err
	}
	if err := o.st.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// abortExchange restores QUESTIONING after a failed AI call, discarding the
// in-progress transcript clone. The stored transcript is unchanged from
// before the submission attempt.
func (o *Orchestrator) abortExchange(sess *models.Session) {
	if err := sess.Transition(models.StateQuestioning); err != nil {
		slog.Error("Orchestrator.abortExchange: invalid rollback transition", "error", err, "sessionID", sess.ID)
		return
	}
	if err := o.st.SaveSession(sess); err != nil {
		slog.Error("Orchestrator.abortExchange: failed to save session", "error", err, "sessionID", sess.ID)
	}
}

// decide requests the final decision and commits the terminal state.
func (o *Orchestrator) decide(ctx context.Context, sess *models.Session, updated models.Transcript) (*models.Session, error) {
	decision, err := o.decisions.FinalDecision(ctx, updated)
	if err != nil {
		o.abortExchange(sess)
		return nil, err
	}

	sess.Transcript = updated
	sess.CurrentQuestion = nil
	sess.Decision = decision
	if err := sess.Transition(models.StateDecided); err != nil {
		return nil, err
	}
	if err := o.st.SaveSession(sess); err != nil {
		slog.Error("Orchestrator.decide: failed to save session", "error", err, "sessionID", sess.ID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("Orchestrator.decide: session decided", "sessionID", sess.ID, "userTurns", updated.UserTurns())
	return sess, nil
}
