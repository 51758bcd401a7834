package voice

import (
	"context"
	"sync"
	"time"

	"github.com/antoniostano/meeple/internal/rulebook"
)

// MockCapture records start/stop requests for tests and scripted demos.
type MockCapture struct {
	mu        sync.Mutex
	available bool
	active    bool
	starts    int
	stops     int
	startErr  error
}

func NewMockCapture() *MockCapture {
	return &MockCapture{available: true}
}

func (c *MockCapture) SetAvailable(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = v
}

func (c *MockCapture) SetStartError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startErr = err
}

func (c *MockCapture) SetActive(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = v
}

func (c *MockCapture) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

func (c *MockCapture) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

func (c *MockCapture) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

func (c *MockCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	if c.startErr != nil {
		return c.startErr
	}
	if c.active {
		return ErrAlreadyActive
	}
	c.active = true
	return nil
}

func (c *MockCapture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	c.active = false
	return nil
}

// MockSpeaker records spoken utterances and cancellations.
type MockSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
}

func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{}
}

func (s *MockSpeaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

func (s *MockSpeaker) Cancels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

func (s *MockSpeaker) Speak(text string, _, _ float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return nil
}

func (s *MockSpeaker) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	return nil
}

// MockAnswerer returns a scripted answer for every question.
type MockAnswerer struct {
	mu     sync.Mutex
	result rulebook.AnswerResult
	panics bool
	delay  time.Duration
	asked  []string
}

func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{
		result: rulebook.AnswerResult{Answer: "Scripted answer.", Sources: []rulebook.Source{}},
	}
}

func (a *MockAnswerer) SetResult(res rulebook.AnswerResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result = res
}

func (a *MockAnswerer) SetPanics(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panics = v
}

func (a *MockAnswerer) SetDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

func (a *MockAnswerer) Asked() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.asked))
	copy(out, a.asked)
	return out
}

func (a *MockAnswerer) Answer(_ context.Context, _, question string) rulebook.AnswerResult {
	a.mu.Lock()
	a.asked = append(a.asked, question)
	panics, delay, result := a.panics, a.delay, a.result
	a.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if panics {
		panic("scripted answer failure")
	}
	return result
}
