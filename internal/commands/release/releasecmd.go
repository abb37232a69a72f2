// Package release implements the "release" command, which runs the full
// release pipeline end to end.
package release

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/pipeline"
	"github.com/relcut/relcut/internal/printer"
	"github.com/relcut/relcut/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "release" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "release",
		Usage:     "Cut a release: sync, detect changes, bump, tag, publish",
		UsageText: "relcut release [--yes] [--dry-run]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the pending changelog section and exit without releasing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runReleaseCmd(ctx, cmd, cfg)
		},
	}
}

func runReleaseCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	p := pipeline.New(cfg, pipeline.WithSpinner(tui.Spin))

	draft, significant, err := p.DetectChanges(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		fmt.Println(draft)
		return nil
	}

	if !significant {
		printer.PrintFaint("No significant changes. Nothing to release.")
		return nil
	}

	if !cmd.Bool("yes") && tui.IsInteractive() {
		fmt.Println(draft)
		ok, err := tui.Confirm("Cut this release?", "The pipeline will commit, tag, publish, and push.")
		if err != nil {
			return err
		}
		if !ok {
			printer.PrintWarning("Release aborted")
			return nil
		}
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if !res.Released {
		return nil
	}

	printer.PrintSuccess(fmt.Sprintf("Released %s, now on %s", res.Tag, res.Next.String()))
	return nil
}
