package main

import (
	"context"
	"fmt"
	"os"

	"github.com/relcut/relcut/internal/cli"
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/runner"
)

func runCLI(args []string) error {
	cfg, err := config.LoadFn()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	app := cli.New(cfg)
	return app.Run(context.Background(), args)
}

// main propagates the failing tool's exit code when one is available.
func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(runner.ExitCode(err))
	}
}
