package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	pkgexec "github.com/dusk-labs/dusk-warden/pkg/exec"
)

// MockCommandExecutor provides a configurable mock for testing CLI-backed clients.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Responses maps command patterns to their mock responses.
	// Key format: "command arg1 arg2" (space-separated command and args)
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching pattern is found.
	DefaultResponse *MockResponse

	// RecordedCalls stores all calls made to Execute for verification.
	RecordedCalls []RecordedCall

	// StrictMode causes Execute to fail if no matching response is found.
	StrictMode bool
}

// MockResponse defines the expected output for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// RecordedCall stores information about a command execution.
type RecordedCall struct {
	Command string
	Args    []string
	Env     []string
	Context context.Context
}

// EnvValue returns the value of key in the call's scoped environment.
func (c RecordedCall) EnvValue(key string) (string, bool) {
	prefix := key + "="
	for _, kv := range c.Env {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix), true
		}
	}
	return "", false
}

// NewMockCommandExecutor creates a new mock executor with empty responses.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Responses:     make(map[string]MockResponse),
		RecordedCalls: make([]RecordedCall, 0),
	}
}

// Execute returns the mocked response for the given command.
func (m *MockCommandExecutor) Execute(ctx context.Context, env []string, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	call := RecordedCall{
		Command: name,
		Args:    append([]string(nil), args...),
		Env:     append([]string(nil), env...),
		Context: ctx,
	}
	m.RecordedCalls = append(m.RecordedCalls, call)
	resp, ok := m.lookup(m.buildKey(name, args))
	m.mu.Unlock()

	if ok {
		return resp.Stdout, resp.Stderr, resp.Err
	}
	if m.StrictMode {
		return nil, nil, fmt.Errorf("mock: no response configured for command: %s", m.buildKey(name, args))
	}
	// Non-strict mode returns empty success
	return []byte{}, []byte{}, nil
}

func (m *MockCommandExecutor) lookup(key string) (MockResponse, bool) {
	// Try exact match first
	if resp, ok := m.Responses[key]; ok {
		return resp, true
	}

	// Longest matching prefix wins so that specific patterns beat generic ones.
	var (
		best    MockResponse
		bestLen = -1
	)
	for pattern, resp := range m.Responses {
		if m.matchesPattern(key, pattern) && len(pattern) > bestLen {
			best, bestLen = resp, len(pattern)
		}
	}
	if bestLen >= 0 {
		return best, true
	}

	if m.DefaultResponse != nil {
		return *m.DefaultResponse, true
	}
	return MockResponse{}, false
}

// buildKey creates a lookup key from command and arguments.
func (m *MockCommandExecutor) buildKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// matchesPattern checks if the command key matches a pattern.
func (m *MockCommandExecutor) matchesPattern(key, pattern string) bool {
	if i := strings.Index(pattern, "*"); i >= 0 {
		return strings.HasPrefix(key, pattern[:i])
	}
	// Check if key starts with pattern (allows additional args)
	return strings.HasPrefix(key, pattern)
}

// AddResponse registers a mock response for a specific command pattern.
func (m *MockCommandExecutor) AddResponse(commandPattern string, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[commandPattern] = response
}

// AddJSONResponse is a convenience method to add a JSON response.
func (m *MockCommandExecutor) AddJSONResponse(commandPattern string, jsonData string) {
	m.AddResponse(commandPattern, MockResponse{
		Stdout: []byte(jsonData),
		Stderr: []byte{},
	})
}

// AddErrorResponse adds a non-zero exit response for a command pattern.
func (m *MockCommandExecutor) AddErrorResponse(commandPattern string, stderr string, exitCode int) {
	m.AddResponse(commandPattern, MockResponse{
		Stdout: []byte{},
		Stderr: []byte(stderr),
		Err:    &pkgexec.ExitError{Code: exitCode},
	})
}

// AddLaunchFailure makes a command pattern fail as if the binary could not be started.
func (m *MockCommandExecutor) AddLaunchFailure(commandPattern string, err error) {
	m.AddResponse(commandPattern, MockResponse{Err: err})
}

// GetCalls returns all recorded calls matching the given command name.
func (m *MockCommandExecutor) GetCalls(commandName string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if call.Command == commandName {
			matches = append(matches, call)
		}
	}
	return matches
}

// CallCount returns the number of times Execute was called.
func (m *MockCommandExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RecordedCalls)
}

// Reset clears all recorded calls and responses.
func (m *MockCommandExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = make(map[string]MockResponse)
	m.RecordedCalls = make([]RecordedCall, 0)
	m.DefaultResponse = nil
}

// AssertCalled verifies that a specific command was called at least once.
func (m *MockCommandExecutor) AssertCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) == 0 {
		t.Error("expected command", commandName, "to be called, but it was not")
		return false
	}
	return true
}

// AssertNotCalled verifies that a specific command was never called.
func (m *MockCommandExecutor) AssertNotCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) > 0 {
		t.Error("expected command", commandName, "to not be called, but it was called", len(calls), "times")
		return false
	}
	return true
}

// AssertCallCount verifies the exact number of times a command was called.
func (m *MockCommandExecutor) AssertCallCount(t interface{ Error(args ...interface{}) }, commandName string, expected int) bool {
	calls := m.GetCalls(commandName)
	if len(calls) != expected {
		t.Error("expected command", commandName, "to be called", expected, "times, but was called", len(calls), "times")
		return false
	}
	return true
}

// BwsMockResponses provides pre-configured responses for the bws CLI.
type BwsMockResponses struct{}

// Secret returns a successful 'bws secret get' response.
func (BwsMockResponses) Secret(id, key, value string) MockResponse {
	body, _ := json.MarshalIndent(map[string]string{
		"object":         "secret",
		"id":             id,
		"organizationId": "6b1f9a70-0000-4000-8000-00000000aaaa",
		"projectId":      "3c1f0b70-0000-4000-8000-00000000bbbb",
		"key":            key,
		"value":          value,
		"note":           "",
		"creationDate":   "2025-01-15T10:30:00.000Z",
		"revisionDate":   "2025-01-15T10:30:00.000Z",
	}, "", "  ")
	return MockResponse{Stdout: append(body, '\n')}
}

// NotFound returns the 404 failure bws prints for a missing or inaccessible secret.
func (BwsMockResponses) NotFound() MockResponse {
	return MockResponse{
		Stderr: []byte(`Error: Received error message from server: [404 Not Found] {"message":"Resource not found."}`),
		Err:    &pkgexec.ExitError{Code: 1},
	}
}

// ExitStatus returns the error a command that exited with code produces.
func ExitStatus(code int) error {
	return &pkgexec.ExitError{Code: code}
}
