package vault

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relcut/relcut/internal/runner"
)

func TestReadField(t *testing.T) {
	mock := &runner.Mock{
		OutputFn: func(spec runner.Spec) (string, error) { return "hvs.token-value", nil },
	}
	c := NewCLI(mock)

	got, err := c.ReadField(context.Background(), "secret/release/pypi", "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hvs.token-value" {
		t.Errorf("ReadField() = %q, want %q", got, "hvs.token-value")
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	want := "kv get -field=token secret/release/pypi"
	if calls[0].Name != "vault" || strings.Join(calls[0].Args, " ") != want {
		t.Errorf("invocation = %s %v, want vault %s", calls[0].Name, calls[0].Args, want)
	}
}

func TestReadField_Errors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		field string
		mock  *runner.Mock
	}{
		{name: "missing path", field: "token", mock: &runner.Mock{}},
		{name: "missing field", path: "secret/x", mock: &runner.Mock{}},
		{
			name: "tool failure", path: "secret/x", field: "token",
			mock: &runner.Mock{OutputFn: func(runner.Spec) (string, error) {
				return "", errors.New("permission denied")
			}},
		},
		{
			name: "empty value", path: "secret/x", field: "token",
			mock: &runner.Mock{OutputFn: func(runner.Spec) (string, error) { return "", nil }},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCLI(tt.mock)
			if _, err := c.ReadField(context.Background(), tt.path, tt.field); err == nil {
				t.Error("expected error")
			}
		})
	}
}
