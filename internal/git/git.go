// Package git wraps the git command-line client with the operations the
// release pipeline needs: staging, committing, tagging, and pushing.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/relcut/relcut/internal/runner"
)

// Client defines the version-control operations used by the pipeline.
type Client interface {
	// StageFiles adds the given paths to the index.
	StageFiles(ctx context.Context, paths ...string) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// CreateAnnotatedTag creates an annotated tag at HEAD.
	CreateAnnotatedTag(ctx context.Context, name, message string) error

	// CreateLightweightTag creates a lightweight tag at HEAD.
	CreateLightweightTag(ctx context.Context, name string) error

	// TagExists reports whether a tag with the given name exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// Push pushes commits to the remote.
	Push(ctx context.Context, remote string) error

	// PushTags pushes all tags to the remote.
	PushTags(ctx context.Context, remote string) error

	// IsWorkTree reports whether the current directory is inside a git
	// working tree.
	IsWorkTree(ctx context.Context) bool
}

// CLI implements Client by shelling out to git through a runner.
type CLI struct {
	run runner.Runner
}

// NewCLI creates a git client backed by the given runner.
func NewCLI(run runner.Runner) *CLI {
	return &CLI{run: run}
}

// Verify CLI implements Client.
var _ Client = (*CLI)(nil)

func (c *CLI) StageFiles(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: args}); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	return nil
}

func (c *CLI) Commit(ctx context.Context, message string) error {
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: []string{"commit", "-m", message}}); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

func (c *CLI) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: []string{"tag", "-a", name, "-m", message}}); err != nil {
		return fmt.Errorf("git tag (annotated) failed: %w", err)
	}
	return nil
}

func (c *CLI) CreateLightweightTag(ctx context.Context, name string) error {
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: []string{"tag", name}}); err != nil {
		return fmt.Errorf("git tag (lightweight) failed: %w", err)
	}
	return nil
}

func (c *CLI) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := c.run.Output(ctx, runner.Spec{Name: "git", Args: []string{"tag", "-l", name}})
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}
	// git tag -l prints the tag name when it exists.
	return strings.TrimSpace(out) == name, nil
}

func (c *CLI) Push(ctx context.Context, remote string) error {
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: []string{"push", remote}}); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

func (c *CLI) PushTags(ctx context.Context, remote string) error {
	if err := c.run.Run(ctx, runner.Spec{Name: "git", Args: []string{"push", remote, "--tags"}}); err != nil {
		return fmt.Errorf("git push --tags failed: %w", err)
	}
	return nil
}

func (c *CLI) IsWorkTree(ctx context.Context) bool {
	out, err := c.run.Output(ctx, runner.Spec{Name: "git", Args: []string{"rev-parse", "--is-inside-work-tree"}})
	return err == nil && strings.TrimSpace(out) == "true"
}
