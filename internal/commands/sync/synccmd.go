// Package sync implements the "sync" command, which runs the dependency
// sync stage on its own.
package sync

import (
	"context"
	"os"

	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/core"
	"github.com/relcut/relcut/internal/pipeline"
	"github.com/relcut/relcut/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "sync" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Sync dependencies when the lockfile changed",
		UsageText: "relcut sync [--force]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Sync even when the sentinel is up to date",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSyncCmd(ctx, cmd, cfg)
		},
	}
}

func runSyncCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	fs := core.NewOSFileSystem()

	if cmd.Bool("force") {
		if err := fs.Remove(ctx, cfg.Sync.Sentinel); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	p := pipeline.New(cfg, pipeline.WithFileSystem(fs), pipeline.WithSpinner(tui.Spin))
	return p.SyncDependencies(ctx)
}
