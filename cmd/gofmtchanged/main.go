// Package main is the entry point for the gofmtchanged CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gofmtchanged/internal/cli"
	"github.com/yaklabco/gofmtchanged/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrChangesNeeded) && !errors.Is(err, cli.ErrFilesFailed) {
		// Per-file problems are already reported; only log run-level failures.
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
