// Package check implements the "check" command, which reports whether a
// release is warranted without modifying anything.
package check

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/pipeline"
	"github.com/relcut/relcut/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "check" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report whether pending fragments warrant a release",
		UsageText: "relcut check [--quiet]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the draft, signal via exit code only",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheckCmd(ctx, cmd, cfg)
		},
	}
}

func runCheckCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	p := pipeline.New(cfg)

	draft, significant, err := p.DetectChanges(ctx)
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")
	if !significant {
		if !quiet {
			printer.PrintFaint("No significant changes. Nothing to release.")
		}
		return fmt.Errorf("no significant changes pending")
	}

	if !quiet {
		fmt.Println(draft)
		printer.PrintSuccess("A release is warranted")
	}
	return nil
}
