package tui

import "testing"

func TestIsInteractive_FalseInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractive() {
		t.Error("expected non-interactive when CI is set")
	}
}

func TestSpin_NonInteractiveRunsAction(t *testing.T) {
	t.Setenv("CI", "true")

	ran := false
	err := Spin("working", func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected action to run")
	}
}
