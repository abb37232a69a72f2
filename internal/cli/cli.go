// Package cli assembles the relcut root command.
package cli

import (
	"context"
	"fmt"

	"github.com/relcut/relcut/internal/commands/bump"
	"github.com/relcut/relcut/internal/commands/changelog"
	"github.com/relcut/relcut/internal/commands/check"
	"github.com/relcut/relcut/internal/commands/doctor"
	"github.com/relcut/relcut/internal/commands/release"
	synccmd "github.com/relcut/relcut/internal/commands/sync"
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/console"
	"github.com/relcut/relcut/internal/printer"
	"github.com/relcut/relcut/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

var noColorFlag bool

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the relcut cli.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "relcut",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Changelog-driven release pipeline",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			console.SetNoColor(noColorFlag)
			printer.SetNoColor(noColorFlag)
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			release.Run(cfg),
			check.Run(cfg),
			bump.Run(cfg),
			changelog.Run(cfg),
			synccmd.Run(cfg),
			doctor.Run(cfg),
		},
	}
}
