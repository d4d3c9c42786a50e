package adapter

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockAdapter returns a canned reply without network access. With no Reply
// set it echoes the code part of the prompt with trailing whitespace trimmed.
type MockAdapter struct {
	Delay time.Duration
	Reply string
	Err   error

	mu      sync.Mutex
	prompts []string
}

func (m *MockAdapter) Name() string  { return "Mock" }
func (m *MockAdapter) Model() string { return "mock" }

func (m *MockAdapter) Generate(ctx context.Context, credential, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}

	_, code, found := strings.Cut(prompt, "\n\n")
	if !found {
		code = prompt
	}
	return strings.TrimRight(code, " \t\n"), nil
}

// Prompts returns every prompt received so far, in call order.
func (m *MockAdapter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
