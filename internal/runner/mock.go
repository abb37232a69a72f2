package runner

import (
	"context"
	"sync"
)

// Mock is a Runner for testing. Calls are recorded in order; behavior is
// customized via the Fn fields.
type Mock struct {
	RunFn    func(spec Spec) error
	OutputFn func(spec Spec) (string, error)

	mu      sync.Mutex
	calls   []Spec
	secrets []string
}

// Verify Mock implements Runner.
var _ Runner = (*Mock)(nil)

func (m *Mock) Run(_ context.Context, spec Spec) error {
	m.record(spec)
	if m.RunFn != nil {
		return m.RunFn(spec)
	}
	return nil
}

func (m *Mock) Output(_ context.Context, spec Spec) (string, error) {
	m.record(spec)
	if m.OutputFn != nil {
		return m.OutputFn(spec)
	}
	return "", nil
}

func (m *Mock) RegisterSecret(secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets = append(m.secrets, secret)
}

// Calls returns a copy of the recorded invocations.
func (m *Mock) Calls() []Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Spec, len(m.calls))
	copy(out, m.calls)
	return out
}

// Secrets returns the values registered for redaction.
func (m *Mock) Secrets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.secrets))
	copy(out, m.secrets)
	return out
}

func (m *Mock) record(spec Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, spec)
}
