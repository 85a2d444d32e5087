package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/blockfold/internal/app"
	"github.com/vk/blockfold/internal/cli"
	"github.com/vk/blockfold/internal/hcl"
	"github.com/vk/blockfold/internal/yamlplan"
)

// main is the entrypoint for the blockfold application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Logs go to logW so a dry-run diff on outW can be piped to patch.
func run(outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	blockfoldApp, err := app.NewApp(outW, logW, appConfig, hcl.NewLoader(), yamlplan.NewLoader())
	if err != nil {
		return err
	}
	return blockfoldApp.Run(context.Background())
}
