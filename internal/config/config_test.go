package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version.Path != ".version" {
		t.Errorf("Version.Path = %q, want .version", cfg.Version.Path)
	}
	if cfg.Version.DevLabel != "dev" {
		t.Errorf("Version.DevLabel = %q, want dev", cfg.Version.DevLabel)
	}
	if cfg.Changelog.Dir != "changelog.d" {
		t.Errorf("Changelog.Dir = %q, want changelog.d", cfg.Changelog.Dir)
	}
	if cfg.Git.TagPrefix != "v" || !cfg.Git.Annotate {
		t.Errorf("unexpected git defaults: %+v", cfg.Git)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
version:
  path: pyproject.toml
  format: toml
  field: project.version
sync:
  command: []
git:
  remote: upstream
  annotate: false
`
	path := filepath.Join(dir, "relcut.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELCUT_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version.Path != "pyproject.toml" || cfg.Version.Format != "toml" {
		t.Errorf("unexpected version config: %+v", cfg.Version)
	}
	if len(cfg.Sync.Command) != 0 {
		t.Errorf("expected sync disabled, got %v", cfg.Sync.Command)
	}
	if cfg.Git.Remote != "upstream" || cfg.Git.Annotate {
		t.Errorf("unexpected git config: %+v", cfg.Git)
	}
	// Untouched sections keep their defaults.
	if cfg.Changelog.Path != "CHANGELOG.md" {
		t.Errorf("Changelog.Path = %q, want default", cfg.Changelog.Path)
	}
	if cfg.Version.DevLabel != "dev" {
		t.Errorf("Version.DevLabel = %q, want default", cfg.Version.DevLabel)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("RELCUT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version.Path != ".version" {
		t.Errorf("expected defaults, got %+v", cfg.Version)
	}
}

func TestLoad_RejectsTraversal(t *testing.T) {
	t.Setenv("RELCUT_CONFIG", "../../etc/passwd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for path traversal")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("version: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELCUT_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantMsg string
	}{
		{
			name:    "missing version path",
			mutate:  func(cfg *Config) { cfg.Version.Path = "" },
			wantMsg: "version.path is required",
		},
		{
			name:    "bad version format",
			mutate:  func(cfg *Config) { cfg.Version.Format = "ini" },
			wantMsg: "version.format",
		},
		{
			name:    "regex without pattern",
			mutate:  func(cfg *Config) { cfg.Version.Format = "regex" },
			wantMsg: "version.pattern is required",
		},
		{
			name:    "sync without lockfile",
			mutate:  func(cfg *Config) { cfg.Sync.Lockfile = "" },
			wantMsg: "sync.lockfile is required",
		},
		{
			name:    "missing build command",
			mutate:  func(cfg *Config) { cfg.Build.Command = nil },
			wantMsg: "build.command is required",
		},
		{
			name:    "vault without env",
			mutate:  func(cfg *Config) { cfg.Publish.Vault.Env = "" },
			wantMsg: "publish.vault.env is required",
		},
		{
			name:    "missing remote",
			mutate:  func(cfg *Config) { cfg.Git.Remote = "" },
			wantMsg: "git.remote is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	cfg := Default()
	cfg.Version.Path = ""
	cfg.Git.Remote = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "version.path") || !strings.Contains(err.Error(), "git.remote") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage("chore(release): {tag} for {version}", "1.2.0", "v1.2.0")
	want := "chore(release): v1.2.0 for 1.2.0"
	if got != want {
		t.Errorf("FormatMessage() = %q, want %q", got, want)
	}
}
