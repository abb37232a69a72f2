// Package changelog implements the "changelog" command group for working
// with changelog fragments outside a release run.
package changelog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/fragments"
	"github.com/relcut/relcut/internal/pipeline"
	"github.com/relcut/relcut/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "changelog" parent command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "changelog",
		Usage:     "Draft, apply, and add changelog fragments",
		UsageText: "relcut changelog <subcommand>",
		Commands: []*cli.Command{
			draftCmd(cfg),
			applyCmd(cfg),
			newCmd(cfg),
		},
	}
}

func draftCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Print the changelog section the next release would produce",
		Action: func(ctx context.Context, _ *cli.Command) error {
			p := pipeline.New(cfg)
			draft, _, err := p.DetectChanges(ctx)
			if err != nil {
				return err
			}
			fmt.Println(draft)
			return nil
		},
	}
}

func applyCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Render pending fragments into the changelog and delete them",
		UsageText: "relcut changelog apply --version <version>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "version",
				Usage:    "Version heading for the new section",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fs := core.NewOSFileSystem()
			engine := fragments.NewEngine(fs, cfg.FragmentsConfig())

			version := cmd.String("version")
			if !strings.HasPrefix(version, cfg.Git.TagPrefix) {
				version = cfg.Git.TagPrefix + version
			}

			consumed, err := engine.Apply(ctx, version)
			if err != nil {
				return err
			}
			printer.PrintSuccess(fmt.Sprintf("Updated %s, consumed %d fragment(s)", cfg.Changelog.Path, len(consumed)))
			return nil
		},
	}
}

func newCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a changelog fragment",
		UsageText: "relcut changelog new --id <issue> --category <category> <text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Fragment identifier, usually the issue or PR number",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Fragment category (feature, bugfix, doc, removal, misc)",
				Value:   "misc",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runNewCmd(ctx, cmd, cfg)
		},
	}
}

func runNewCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("fragment text is required")
	}

	category := cmd.String("category")
	categories := cfg.Changelog.Categories
	if len(categories) == 0 {
		categories = fragments.DefaultCategories()
	}
	known := false
	for _, c := range categories {
		if c.Key == category {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown fragment category %q", category)
	}

	fs := core.NewOSFileSystem()
	if err := fs.MkdirAll(ctx, cfg.Changelog.Dir, core.PermDir); err != nil {
		return err
	}

	name := fmt.Sprintf("%s.%s.md", cmd.String("id"), category)
	path := filepath.Join(cfg.Changelog.Dir, name)
	if _, err := fs.Stat(ctx, path); err == nil {
		return fmt.Errorf("fragment %s already exists", path)
	}

	if err := fs.WriteFile(ctx, path, []byte(text+"\n"), core.PermOwnerRW); err != nil {
		return err
	}
	printer.PrintSuccess("Created " + path)
	return nil
}
