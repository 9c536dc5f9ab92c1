// Package main is the entry point for the mdsync CLI.
package main

import (
	"context"
	"os"

	"github.com/yaklabco/mdsync/internal/cli"
	"github.com/yaklabco/mdsync/internal/logging"
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

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Signals only select the exit code.
		if !cli.IsSignal(err) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCodeForError(err)
	}

	return cli.ExitSuccess
}
