package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	e := New()
	e.RegisterSecret("hvs.super-secret-token")
	e.RegisterSecret("another")

	got := e.Redact("publish --token hvs.super-secret-token to another index")
	if strings.Contains(got, "hvs.super-secret-token") {
		t.Errorf("secret leaked: %q", got)
	}
	want := fmt.Sprintf("publish --token %s to %s index", RedactedValue, RedactedValue)
	if got != want {
		t.Errorf("Redact() = %q, want %q", got, want)
	}
}

func TestRegisterSecret_IgnoresEmpty(t *testing.T) {
	e := New()
	e.RegisterSecret("")
	if got := e.Redact("unchanged"); got != "unchanged" {
		t.Errorf("Redact() = %q, want unchanged", got)
	}
}

func TestWrapError_IncludesStderr(t *testing.T) {
	e := New()
	e.RegisterSecret("tok123456")

	base := errors.New("exit status 2")
	err := e.wrapError(Spec{Name: "uv"}, "upload rejected for tok123456\n", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "uv: upload rejected for "+RedactedValue) {
		t.Errorf("unexpected error message: %v", err)
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped base error")
	}

	err = e.wrapError(Spec{Name: "uv"}, "", base)
	if err.Error() != "uv failed: exit status 2" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(generic) = %d, want 1", got)
	}

	// A real non-zero exit carries its code through wrapping.
	cmd := exec.Command("sh", "-c", "exit 3")
	err := cmd.Run()
	if err == nil {
		t.Skip("shell unexpectedly succeeded")
	}
	wrapped := fmt.Errorf("stage publish: %w", err)
	if got := ExitCode(wrapped); got != 3 {
		t.Errorf("ExitCode(wrapped exit 3) = %d, want 3", got)
	}
}

func TestExec_Run_StdoutOverride(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	err := e.Run(context.Background(), Spec{
		Name:   "sh",
		Args:   []string{"-c", "echo captured"},
		Stdout: &buf,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "captured" {
		t.Errorf("expected stdout redirected to the buffer, got %q", got)
	}
}

func TestExec_Output(t *testing.T) {
	e := New()
	out, err := e.Output(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo ' 1.2.3 '"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1.2.3" {
		t.Errorf("Output() = %q, want %q", out, "1.2.3")
	}
}

func TestExec_Output_Failure(t *testing.T) {
	e := New()
	_, err := e.Output(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo 'bad input' >&2; exit 4"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad input") {
		t.Errorf("expected stderr in error, got %v", err)
	}
	if got := ExitCode(err); got != 4 {
		t.Errorf("ExitCode() = %d, want 4", got)
	}
}

func TestMock_RecordsCalls(t *testing.T) {
	m := &Mock{}
	_ = m.Run(context.Background(), Spec{Name: "git", Args: []string{"push"}})
	_, _ = m.Output(context.Background(), Spec{Name: "vault"})

	calls := m.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Name != "git" || calls[1].Name != "vault" {
		t.Errorf("unexpected call order: %+v", calls)
	}
}
