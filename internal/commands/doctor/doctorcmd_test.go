package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/git"
	"github.com/urfave/cli/v3"
)

func buildCLI(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:     "relcut",
		Commands: []*cli.Command{Run(cfg)},
	}
}

func stubEnvironment(t *testing.T) {
	t.Helper()
	origLook := lookPath
	origGit := newGitClient
	lookPath = func(string) (string, error) { return "/usr/bin/stub", nil }
	newGitClient = func() git.Client { return &git.Mock{} }
	t.Cleanup(func() {
		lookPath = origLook
		newGitClient = origGit
	})
}

func healthyConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Version.Path = filepath.Join(dir, ".version")
	cfg.Changelog.Path = filepath.Join(dir, "CHANGELOG.md")
	cfg.Changelog.Dir = filepath.Join(dir, "changelog.d")
	cfg.Sync.Lockfile = filepath.Join(dir, "uv.lock")
	cfg.Sync.Sentinel = filepath.Join(dir, ".sync-ok")

	for path, content := range map[string]string{
		cfg.Version.Path:   "1.0.0-dev\n",
		cfg.Changelog.Path: "# Changelog\n",
		cfg.Sync.Lockfile:  "locked",
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(cfg.Changelog.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestDoctorHealthyEnvironment(t *testing.T) {
	stubEnvironment(t)
	cfg := healthyConfig(t, t.TempDir())

	err := buildCLI(cfg).Run(context.Background(), []string{"relcut", "doctor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoctorReportsFailures(t *testing.T) {
	stubEnvironment(t)
	cfg := healthyConfig(t, t.TempDir())
	if err := os.Remove(cfg.Version.Path); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(cfg.Sync.Lockfile); err != nil {
		t.Fatal(err)
	}

	err := buildCLI(cfg).Run(context.Background(), []string{"relcut", "doctor"})
	if err == nil || !strings.Contains(err.Error(), "check(s) failed") {
		t.Errorf("expected failed checks, got %v", err)
	}
}

func TestDoctorMissingTool(t *testing.T) {
	stubEnvironment(t)
	lookPath = func(tool string) (string, error) {
		if tool == "vault" {
			return "", os.ErrNotExist
		}
		return "/usr/bin/stub", nil
	}
	cfg := healthyConfig(t, t.TempDir())

	err := buildCLI(cfg).Run(context.Background(), []string{"relcut", "doctor"})
	if err == nil {
		t.Fatal("expected a failure for the missing vault binary")
	}
}

func TestRequiredToolsDeduplicates(t *testing.T) {
	cfg := config.Default()
	tools := requiredTools(cfg)

	want := []string{"git", "uv", "vault"}
	if len(tools) != len(want) {
		t.Fatalf("expected %v, got %v", want, tools)
	}
	for i, tool := range want {
		if tools[i] != tool {
			t.Errorf("expected %v, got %v", want, tools)
			break
		}
	}
}
