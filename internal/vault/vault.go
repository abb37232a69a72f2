// Package vault reads publish credentials from a secrets vault at release
// time. Tokens are fetched just-in-time, handed to the publish tool via the
// environment, and never persisted.
package vault

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/runner"
)

// Reader fetches a single secret field.
type Reader interface {
	// ReadField returns the value of one field stored at the given vault
	// path. The value is a single line of text with whitespace trimmed.
	ReadField(ctx context.Context, path, field string) (string, error)
}

// CLI implements Reader by shelling out to the vault command-line client.
type CLI struct {
	run runner.Runner
}

// NewCLI creates a vault reader backed by the given runner.
func NewCLI(run runner.Runner) *CLI {
	return &CLI{run: run}
}

// Verify CLI implements Reader.
var _ Reader = (*CLI)(nil)

func (c *CLI) ReadField(ctx context.Context, path, field string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("vault path is required")
	}
	if field == "" {
		return "", fmt.Errorf("vault field is required")
	}

	out, err := c.run.Output(ctx, runner.Spec{
		Name: "vault",
		Args: []string{"kv", "get", "-field=" + field, path},
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %s from vault path %q: %w", field, path, err)
	}
	if out == "" {
		return "", fmt.Errorf("vault returned an empty value for %s at %q", field, path)
	}
	return out, nil
}

// Mock is a Reader for testing.
type Mock struct {
	ReadFieldFn func(path, field string) (string, error)
}

// Verify Mock implements Reader.
var _ Reader = (*Mock)(nil)

func (m *Mock) ReadField(_ context.Context, path, field string) (string, error) {
	if m.ReadFieldFn != nil {
		return m.ReadFieldFn(path, field)
	}
	return "", nil
}
