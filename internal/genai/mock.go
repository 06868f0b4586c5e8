// Package genai provides GenAI chat clients for MindGuide.
//
// This file implements a mock client for tests. Use genai.NewMockClient
// instead of NewClient to avoid real API connections.
package genai

import (
	"context"
	"sync"
)

// MockCall records one GenerateWithHistory invocation for assertions.
type MockCall struct {
	History     []Message
	Instruction string
}

// MockClient implements ClientInterface with scripted replies.
type MockClient struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []MockCall
}

// NewMockClient creates a mock client that returns the given replies in
// order, repeating the last one once exhausted.
func NewMockClient(replies ...string) *MockClient {
	return &MockClient{replies: replies}
}

// NewMockClientWithError creates a mock client whose calls all fail with err.
func NewMockClientWithError(err error) *MockClient {
	return &MockClient{err: err}
}

// GenerateWithHistory records the call and returns the next scripted reply.
func (m *MockClient) GenerateWithHistory(ctx context.Context, history []Message, instruction string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recorded := make([]Message, len(history))
	copy(recorded, history)
	m.calls = append(m.calls, MockCall{History: recorded, Instruction: instruction})
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", ErrNoContent
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

// Calls returns the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
