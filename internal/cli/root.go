// Package cli provides the Cobra command structure for mdsync.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdsync command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var envFile string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdsync",
		Short: "Keep Markdown source and its rendered preview in step",
		Long: `mdsync maps every block of a Markdown document to its place in the
rendered HTML and back.

It resolves the source range of each rendered block, annotates the HTML with
those ranges, and keeps an editor and a live preview synchronized: moving
the caret scrolls the preview, clicking the preview selects the source.
Use "spans" to check how well a document maps, "render" or "lookup" for
one-off work, and "serve" to host live sessions for browser editors.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env in the working directory)")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupSync, Title: "Sync Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newSpansCommand(),
		newRenderCommand(),
		newLookupCommand(),
		newServeCommand(),
	} {
		cmd.GroupID = groupSync
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newInitCommand(),
		newVersionCommand(info),
	} {
		cmd.GroupID = groupSetup
		rootCmd.AddCommand(cmd)
	}

	NewHelpFormatter().ApplyToCommand(rootCmd)

	return rootCmd
}
