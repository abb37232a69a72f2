// Package bump implements the "bump" command group for moving the version
// marker without running the rest of the pipeline.
package bump

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/printer"
	"github.com/relcut/relcut/internal/semver"
	"github.com/relcut/relcut/internal/versionfile"
	"github.com/urfave/cli/v3"
)

// Run returns the "bump" parent command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "bump",
		Usage:     "Move the version marker (patch, minor, major, release, dev)",
		UsageText: "relcut bump <subcommand>",
		Commands: []*cli.Command{
			labelCmd(cfg, "patch", "Bump the patch version"),
			labelCmd(cfg, "minor", "Bump the minor version"),
			labelCmd(cfg, "major", "Bump the major version"),
			releaseCmd(cfg),
			devCmd(cfg),
		},
	}
}

func labelCmd(cfg *config.Config, label, usage string) *cli.Command {
	return &cli.Command{
		Name:  label,
		Usage: usage,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return apply(ctx, cfg, func(v semver.SemVersion) (semver.SemVersion, error) {
				return semver.BumpByLabel(v, label)
			})
		},
	}
}

func releaseCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "release",
		Usage: "Promote the development version to its final release form",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return apply(ctx, cfg, semver.SemVersion.Promote)
		},
	}
}

func devCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Advance to the next minor development version",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return apply(ctx, cfg, func(v semver.SemVersion) (semver.SemVersion, error) {
				return v.NextDevelopment(cfg.Version.DevLabel), nil
			})
		},
	}
}

// apply reads the version marker, transforms it, and writes it back.
func apply(ctx context.Context, cfg *config.Config, transform func(semver.SemVersion) (semver.SemVersion, error)) error {
	fs := core.NewOSFileSystem()
	src := cfg.VersionSource()

	current, err := versionfile.Read(ctx, fs, src)
	if err != nil {
		return err
	}

	next, err := transform(current)
	if err != nil {
		return err
	}

	if err := versionfile.Write(ctx, fs, src, next); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Updated version from %s to %s", current.String(), next.String()))
	return nil
}
