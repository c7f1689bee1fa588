package testutil

import (
	"context"
	"strings"
	"sync"
)

// MockCall records a single Generate invocation
type MockCall struct {
	Model  string
	Prompt string
}

// MockGenerator mocks a text generation provider. Responses and errors are
// keyed by the input text embedded at the end of the prompt.
type MockGenerator struct {
	Responses map[string]string
	Errors    map[string]error
	Default   string

	mu    sync.Mutex
	calls []MockCall
	gates map[string]chan struct{}
}

// NewMockGenerator creates an empty mock generator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}
}

// Generate mocks a provider call
func (m *MockGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Model: model, Prompt: prompt})
	key := m.keyFor(prompt)
	gate := m.gates[key]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return m.Default, nil
}

// Name mocks the provider name
func (m *MockGenerator) Name() string {
	return "mock"
}

// Hold blocks calls for text until the returned release func is called
func (m *MockGenerator) Hold(text string) (release func()) {
	gate := make(chan struct{})

	m.mu.Lock()
	m.gates[text] = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns a copy of the recorded calls
func (m *MockGenerator) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of Generate calls
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// keyFor finds the configured input text the prompt ends with. Callers hold mu.
func (m *MockGenerator) keyFor(prompt string) string {
	var keys []string
	for key := range m.Responses {
		keys = append(keys, key)
	}
	for key := range m.Errors {
		keys = append(keys, key)
	}
	for key := range m.gates {
		keys = append(keys, key)
	}

	for _, key := range keys {
		if strings.HasSuffix(prompt, "\n"+key) {
			return key
		}
	}
	return prompt
}

// MockClipboard mocks the system clipboard
type MockClipboard struct {
	Err error

	mu     sync.Mutex
	copied []string
}

// Copy mocks writing to the clipboard
func (m *MockClipboard) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.copied = append(m.copied, text)
	return nil
}

// Copied returns everything written so far
func (m *MockClipboard) Copied() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]string, len(m.copied))
	copy(copied, m.copied)
	return copied
}
