package mock

import (
	"context"
	"sync"
)

// Call captures the arguments of one Complete invocation.
type Call struct {
	System      string
	User        string
	Temperature float64
}

// MockLanguageModel is a test double for ai.LanguageModel.
// It allows custom behavior injection via function fields.
type MockLanguageModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Response.
	CompleteFunc func(ctx context.Context, system, user string, temperature float64) (string, error)

	// Response is returned when CompleteFunc is nil.
	Response string

	mu    sync.Mutex
	calls []Call
}

// NewMockLanguageModel creates a mock model that answers with an empty string.
func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{}
}

// NewMockLanguageModelWithResponse creates a mock model with a fixed answer.
func NewMockLanguageModelWithResponse(response string) *MockLanguageModel {
	return &MockLanguageModel{Response: response}
}

// Complete records the call and returns the configured response.
func (m *MockLanguageModel) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{System: system, User: user, Temperature: temperature})
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, temperature)
	}
	return m.Response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockLanguageModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls in invocation order.
func (m *MockLanguageModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls and custom behavior.
func (m *MockLanguageModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.CompleteFunc = nil
	m.Response = ""
}
