// Package doctor implements the "doctor" command, which verifies the
// environment the release pipeline depends on.
package doctor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/git"
	"github.com/relcut/relcut/internal/printer"
	"github.com/relcut/relcut/internal/runner"
	"github.com/relcut/relcut/internal/versionfile"
	"github.com/urfave/cli/v3"
)

// lookPath and newGitClient are swapped in tests.
var (
	lookPath     = exec.LookPath
	newGitClient = func() git.Client { return git.NewCLI(runner.New()) }
)

// Run returns the "doctor" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Usage:     "Check that the release environment is ready",
		UsageText: "relcut doctor",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runDoctorCmd(ctx, cfg)
		},
	}
}

type check struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

func runDoctorCmd(ctx context.Context, cfg *config.Config) error {
	fs := core.NewOSFileSystem()
	gitClient := newGitClient()

	checks := []check{
		{"configuration", func(context.Context) (string, error) {
			return "", config.Validate(cfg)
		}},
		{"version marker", func(ctx context.Context) (string, error) {
			v, err := versionfile.Read(ctx, fs, cfg.VersionSource())
			if err != nil {
				return "", err
			}
			return v.String(), nil
		}},
		{"changelog", func(ctx context.Context) (string, error) {
			if _, err := fs.Stat(ctx, cfg.Changelog.Path); err != nil {
				return "", fmt.Errorf("%s not found", cfg.Changelog.Path)
			}
			return cfg.Changelog.Path, nil
		}},
		{"fragments directory", func(ctx context.Context) (string, error) {
			if _, err := fs.Stat(ctx, cfg.Changelog.Dir); err != nil {
				return "", fmt.Errorf("%s not found", cfg.Changelog.Dir)
			}
			return cfg.Changelog.Dir, nil
		}},
		{"git repository", func(ctx context.Context) (string, error) {
			if !gitClient.IsWorkTree(ctx) {
				return "", fmt.Errorf("not inside a git work tree")
			}
			return "", nil
		}},
	}

	if len(cfg.Sync.Command) > 0 {
		checks = append(checks, check{"lockfile", func(ctx context.Context) (string, error) {
			if _, err := fs.Stat(ctx, cfg.Sync.Lockfile); err != nil {
				return "", fmt.Errorf("%s not found", cfg.Sync.Lockfile)
			}
			return cfg.Sync.Lockfile, nil
		}})
	}

	for _, tool := range requiredTools(cfg) {
		checks = append(checks, toolCheck(tool))
	}

	failures := 0
	for _, c := range checks {
		detail, err := c.fn(ctx)
		if err != nil {
			failures++
			fmt.Printf("  %s %s: %v\n", printer.Error("✗"), c.name, err)
			continue
		}
		line := fmt.Sprintf("  %s %s", printer.SuccessBadge("✓"), c.name)
		if detail != "" {
			line += " " + printer.Faint("("+detail+")")
		}
		fmt.Println(line)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	printer.PrintSuccess("Environment is ready")
	return nil
}

// requiredTools lists the executables the pipeline shells out to,
// deduplicated and in a stable order.
func requiredTools(cfg *config.Config) []string {
	tools := []string{"git"}
	for _, cmd := range [][]string{cfg.Sync.Command, cfg.Build.Command, cfg.Publish.Command} {
		if len(cmd) > 0 {
			tools = append(tools, cmd[0])
		}
	}
	if cfg.Publish.Vault.Path != "" {
		tools = append(tools, "vault")
	}

	seen := make(map[string]bool, len(tools))
	out := tools[:0]
	for _, t := range tools {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func toolCheck(tool string) check {
	return check{"tool " + tool, func(context.Context) (string, error) {
		path, err := lookPath(tool)
		if err != nil {
			return "", fmt.Errorf("not found in PATH")
		}
		return path, nil
	}}
}
