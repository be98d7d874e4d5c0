package testutils

import (
	"context"
	"fmt"
)

// MockCompleter is a test completer that replays canned outputs.
type MockCompleter struct {
	// Output is returned by every Complete call unless Outputs is set.
	Output string

	// Outputs, when non-empty, is consumed one element per call.
	Outputs []string

	// Fail causes Complete to return an error.
	Fail bool

	// Prompts accumulates the prompts passed to Complete.
	Prompts []string

	next int
}

func NewMockCompleter(output string) *MockCompleter {
	return &MockCompleter{Output: output}
}

func (m *MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)

	if m.Fail {
		return "", fmt.Errorf("mock completion failure")
	}

	if len(m.Outputs) > 0 {
		out := m.Outputs[m.next%len(m.Outputs)]
		m.next++
		return out, nil
	}

	return m.Output, nil
}

func (m *MockCompleter) Close() error {
	return nil
}
