package bump

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relcut/relcut/internal/config"
	"github.com/urfave/cli/v3"
)

func buildCLI(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:     "relcut",
		Commands: []*cli.Command{Run(cfg)},
	}
}

func TestBumpSubcommands(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		args    []string
		want    string
	}{
		{
			name:    "patch",
			initial: "1.2.3",
			args:    []string{"relcut", "bump", "patch"},
			want:    "1.2.4",
		},
		{
			name:    "minor resets patch",
			initial: "1.2.3",
			args:    []string{"relcut", "bump", "minor"},
			want:    "1.3.0",
		},
		{
			name:    "major resets minor and patch",
			initial: "1.2.3",
			args:    []string{"relcut", "bump", "major"},
			want:    "2.0.0",
		},
		{
			name:    "release promotes a development version",
			initial: "1.3.0-dev",
			args:    []string{"relcut", "bump", "release"},
			want:    "1.3.0",
		},
		{
			name:    "dev advances to the next minor development version",
			initial: "1.3.0",
			args:    []string{"relcut", "bump", "dev"},
			want:    "1.4.0-dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.Default()
			cfg.Version.Path = filepath.Join(dir, ".version")
			if err := os.WriteFile(cfg.Version.Path, []byte(tt.initial+"\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			if err := buildCLI(cfg).Run(context.Background(), tt.args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			data, err := os.ReadFile(cfg.Version.Path)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(string(data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBumpReleaseRejectsFinalVersion(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Version.Path = filepath.Join(dir, ".version")
	if err := os.WriteFile(cfg.Version.Path, []byte("2.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := buildCLI(cfg).Run(context.Background(), []string{"relcut", "bump", "release"})
	if err == nil {
		t.Fatal("expected an error for a non-development version")
	}
}

func TestBumpMissingVersionFile(t *testing.T) {
	cfg := config.Default()
	cfg.Version.Path = filepath.Join(t.TempDir(), ".version")

	err := buildCLI(cfg).Run(context.Background(), []string{"relcut", "bump", "patch"})
	if err == nil {
		t.Fatal("expected an error for a missing version file")
	}
}
