package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relcut/relcut/internal/runner"
)

func TestCLI_BuildsExpectedArgs(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, c *CLI) error
		want []string
	}{
		{
			name: "stage files",
			call: func(ctx context.Context, c *CLI) error {
				return c.StageFiles(ctx, "pyproject.toml", "CHANGELOG.md", "changelog.d")
			},
			want: []string{"add", "--", "pyproject.toml", "CHANGELOG.md", "changelog.d"},
		},
		{
			name: "commit",
			call: func(ctx context.Context, c *CLI) error { return c.Commit(ctx, "chore(release): v1.2.0") },
			want: []string{"commit", "-m", "chore(release): v1.2.0"},
		},
		{
			name: "annotated tag",
			call: func(ctx context.Context, c *CLI) error {
				return c.CreateAnnotatedTag(ctx, "v1.2.0", "Release 1.2.0")
			},
			want: []string{"tag", "-a", "v1.2.0", "-m", "Release 1.2.0"},
		},
		{
			name: "lightweight tag",
			call: func(ctx context.Context, c *CLI) error { return c.CreateLightweightTag(ctx, "v1.2.0") },
			want: []string{"tag", "v1.2.0"},
		},
		{
			name: "push",
			call: func(ctx context.Context, c *CLI) error { return c.Push(ctx, "origin") },
			want: []string{"push", "origin"},
		},
		{
			name: "push tags",
			call: func(ctx context.Context, c *CLI) error { return c.PushTags(ctx, "origin") },
			want: []string{"push", "origin", "--tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &runner.Mock{}
			c := NewCLI(mock)
			if err := tt.call(context.Background(), c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := mock.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(calls))
			}
			if calls[0].Name != "git" {
				t.Errorf("expected git, got %q", calls[0].Name)
			}
			if strings.Join(calls[0].Args, " ") != strings.Join(tt.want, " ") {
				t.Errorf("args = %v, want %v", calls[0].Args, tt.want)
			}
		})
	}
}

func TestCLI_StageFiles_NoPaths(t *testing.T) {
	mock := &runner.Mock{}
	c := NewCLI(mock)
	if err := c.StageFiles(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls()) != 0 {
		t.Error("expected no git invocation for empty path list")
	}
}

func TestCLI_TagExists(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{name: "exists", output: "v1.2.0\n", want: true},
		{name: "missing", output: "", want: false},
		{name: "different tag", output: "v1.2.0-rc.1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &runner.Mock{
				OutputFn: func(spec runner.Spec) (string, error) { return tt.output, nil },
			}
			c := NewCLI(mock)
			got, err := c.TagExists(context.Background(), "v1.2.0")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("TagExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCLI_ErrorsWrapRunnerFailure(t *testing.T) {
	base := errors.New("exit status 128")
	mock := &runner.Mock{
		RunFn: func(spec runner.Spec) error { return base },
	}
	c := NewCLI(mock)

	err := c.Commit(context.Background(), "msg")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, base) {
		t.Errorf("expected wrapped runner error, got %v", err)
	}
	if !strings.Contains(err.Error(), "git commit failed") {
		t.Errorf("expected operation context in error, got %v", err)
	}
}

func TestCLI_IsWorkTree(t *testing.T) {
	mock := &runner.Mock{
		OutputFn: func(spec runner.Spec) (string, error) { return "true", nil },
	}
	if !NewCLI(mock).IsWorkTree(context.Background()) {
		t.Error("expected work tree detection to succeed")
	}

	failing := &runner.Mock{
		OutputFn: func(spec runner.Spec) (string, error) { return "", errors.New("not a git repository") },
	}
	if NewCLI(failing).IsWorkTree(context.Background()) {
		t.Error("expected work tree detection to fail")
	}
}
