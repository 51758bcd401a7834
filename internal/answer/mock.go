package answer

import (
	"context"
	"sync"
)

// MockModelClient is a local fallback model used when no API key is configured.
// Tests also use it to script completions and failures.
type MockModelClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	lastReq  ModelRequest
}

func NewMockModelClient() *MockModelClient {
	return &MockModelClient{response: "According to the excerpts, that is covered in the rulebook."}
}

func (m *MockModelClient) SetResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = text
	m.err = nil
}

func (m *MockModelClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockModelClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockModelClient) LastRequest() ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

func (m *MockModelClient) Complete(_ context.Context, req ModelRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *MockModelClient) Close() error { return nil }
