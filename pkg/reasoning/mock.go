package reasoning

import (
	"context"
	"sync"
)

// MockClient is a scriptable Client for tests. Results are consumed in
// order; when the script runs out it falls back to a completed result.
type MockClient struct {
	mu      sync.Mutex
	script  []*Result
	errs    []error
	Calls   []Request
}

// NewMockClient creates an empty mock.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Enqueue appends a scripted result (or error) to the script.
func (m *MockClient) Enqueue(res *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, res)
	m.errs = append(m.errs, err)
}

// ExecutePrompt records the request and replays the next scripted result.
func (m *MockClient) ExecutePrompt(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if len(m.script) == 0 {
		return &Result{Success: true, Outcome: OutcomeCompleted, Summary: "mock completed"}, nil
	}
	res, err := m.script[0], m.errs[0]
	m.script = m.script[1:]
	m.errs = m.errs[1:]
	return res, err
}

// CallCount returns how many prompts have been executed.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
