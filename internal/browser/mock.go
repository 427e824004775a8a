package browser

import (
	"context"
	"sync"
)

// MockExecutor records requests and replays queued outcomes, for tests.
type MockExecutor struct {
	mu       sync.Mutex
	requests []Request
	queue    []Outcome

	// Default is returned when the queue is empty.
	Default Outcome
}

var _ Executor = (&MockExecutor{})

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Default: Outcome{Kind: OutcomeScheduled, Detail: "mock run"},
	}
}

func (m *MockExecutor) Enqueue(outcomes ...Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, outcomes...)
}

func (m *MockExecutor) Run(_ context.Context, req Request) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next
	}
	return m.Default
}

func (m *MockExecutor) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
