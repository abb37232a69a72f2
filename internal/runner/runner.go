// Package runner executes external tools for the release pipeline.
// Every invocation is context-aware, folds captured stderr into returned
// errors, and is traced through zerolog when the CI environment variable is
// set. Registered secrets are redacted from all trace output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// RedactedValue replaces registered secrets in traced command lines.
const RedactedValue = "[REDACTED]"

// Spec describes one external command invocation.
type Spec struct {
	// Name is the executable to run.
	Name string

	// Args are the command arguments.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the ambient environment.
	Env []string

	// Stdout overrides where the command's standard output goes.
	// When nil, Run streams to os.Stdout and Output captures.
	Stdout io.Writer
}

// Runner abstracts external command execution for testability.
type Runner interface {
	// Run executes the command, streaming its output to the user.
	Run(ctx context.Context, spec Spec) error

	// Output executes the command and returns its trimmed stdout.
	Output(ctx context.Context, spec Spec) (string, error)

	// RegisterSecret marks a value that must never appear in trace output.
	RegisterSecret(secret string)
}

// Exec is the production Runner backed by os/exec.
type Exec struct {
	log   zerolog.Logger
	trace bool

	mu      sync.Mutex
	secrets []string

	// execCommand is a seam for tests; defaults to exec.CommandContext.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Verify Exec implements Runner.
var _ Runner = (*Exec)(nil)

// New creates an Exec runner. Command tracing is enabled when the CI
// environment variable is set and non-empty.
func New() *Exec {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return &Exec{
		log:         logger,
		trace:       os.Getenv("CI") != "",
		execCommand: exec.CommandContext,
	}
}

// RegisterSecret marks a value for redaction in trace output.
func (e *Exec) RegisterSecret(secret string) {
	if secret == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.secrets = append(e.secrets, secret)
}

// Run executes the command, streaming stdout and stderr to the user.
// Stderr is additionally captured so failures carry the tool's message.
func (e *Exec) Run(ctx context.Context, spec Spec) error {
	cmd := e.command(ctx, spec)

	stdout := spec.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)

	e.traceInvocation(spec)
	if err := cmd.Run(); err != nil {
		return e.wrapError(spec, stderr.String(), err)
	}
	return nil
}

// Output executes the command and returns its stdout with surrounding
// whitespace trimmed. Stderr is captured for error reporting only.
func (e *Exec) Output(ctx context.Context, spec Spec) (string, error) {
	cmd := e.command(ctx, spec)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.traceInvocation(spec)
	if err := cmd.Run(); err != nil {
		return "", e.wrapError(spec, stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (e *Exec) command(ctx context.Context, spec Spec) *exec.Cmd {
	cmd := e.execCommand(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	return cmd
}

func (e *Exec) wrapError(spec Spec, stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	if msg != "" {
		return fmt.Errorf("%s: %s: %w", spec.Name, e.Redact(msg), err)
	}
	return fmt.Errorf("%s failed: %w", spec.Name, err)
}

func (e *Exec) traceInvocation(spec Spec) {
	if !e.trace {
		return
	}

	event := e.log.Info().
		Str("cmd", e.Redact(strings.Join(append([]string{spec.Name}, spec.Args...), " ")))
	if spec.Dir != "" {
		event = event.Str("dir", spec.Dir)
	}
	if len(spec.Env) > 0 {
		event = event.Str("env", e.Redact(strings.Join(spec.Env, " ")))
	}
	event.Msg("exec")
}

// Redact replaces every registered secret in s with RedactedValue.
func (e *Exec) Redact(s string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, secret := range e.secrets {
		s = strings.ReplaceAll(s, secret, RedactedValue)
	}
	return s
}

// ExitCode extracts the process exit code from an error returned by a
// Runner. It returns 0 for nil and 1 when no exit code is available.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
