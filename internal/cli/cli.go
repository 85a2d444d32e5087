package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/blockfold/internal/app"
	"github.com/vk/blockfold/internal/consolidate"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitInconsistent = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by a run to a process exit code.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, consolidate.ErrConsistency):
		return ExitInconsistent
	default:
		return ExitFailure
	}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("blockfold", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
blockfold - Consolidates marker-delimited blocks of a text document.

Usage:
  blockfold [options] [PLAN_PATH]

Arguments:
  PLAN_PATH
    Path to a single plan file (.hcl, .yaml, .yml) or a directory of plans.

Exit codes:
  0  success
  1  boundary mismatch or other failure, target untouched
  2  usage error
  3  marker count mismatch after writing, with -strict

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to the plan file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plan file or directory (shorthand).")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print a unified diff instead of writing the target.")
	checkFlag := flagSet.Bool("check", false, "Only verify region boundaries, do not write.")
	strictFlag := flagSet.Bool("strict", false, "Fail with exit code 3 when the marker count check fails.")
	backupFlag := flagSet.Bool("backup", false, "Keep a copy of the target as <target>.bak.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *planFlag != "" {
		path = *planFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Plan path determined.", "path", path)

	if path == "" {
		slog.Debug("No plan path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 || (flagSet.NArg() == 1 && path != flagSet.Arg(0)) {
		return nil, false, &ExitError{Code: ExitUsage, Message: "too many arguments: expected a single plan path"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		PlanPath:  path,
		DryRun:    *dryRunFlag,
		Check:     *checkFlag,
		Strict:    *strictFlag,
		Backup:    *backupFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
