package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/config"
	"github.com/yaklabco/mdsync/pkg/reporter"
	"github.com/yaklabco/mdsync/pkg/runner"
)

// ErrUnresolvedBlocks is returned by --strict runs that left blocks
// without a source span. It only selects the exit code.
var ErrUnresolvedBlocks = errors.New("unresolved blocks found")

type spansFlags struct {
	format         string
	flavor         string
	ignore         []string
	include        []string
	unresolvedOnly bool
	compact        bool
	excerptWidth   int
	followSymlinks bool
}

func newSpansCommand() *cobra.Command {
	var cfg config.Config
	flags := &spansFlags{}

	cmd := &cobra.Command{
		Use:   "spans [paths...]",
		Short: "Resolve the source span of every block",
		Long:  spansLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpans(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, table, json (default text)")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns files must match")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "exit with code 1 when any block is unresolved")
	cmd.Flags().BoolVar(&flags.unresolvedOnly, "unresolved-only", false, "only show unresolved blocks")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use minified JSON")
	cmd.Flags().IntVar(&flags.excerptWidth, "excerpt-width", 0, "maximum excerpt width in text output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symbolic links to directories")

	return cmd
}

const spansLongDescription = `Tokenize Markdown files and resolve each top-level block to its byte
range in the source, the same way the preview does while editing.

By default, resolves all .md and .markdown files in the current directory
and subdirectories. Unresolved blocks render in the preview but cannot be
navigated.

Examples:
  mdsync spans                        # Current directory
  mdsync spans docs/ README.md        # Specific paths
  mdsync spans --format table         # One table per file
  mdsync spans --format json          # Machine-readable spans
  mdsync spans --unresolved-only      # Only blocks without a span
  mdsync spans --strict               # Fail when any block is unresolved`

func runSpans(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *spansFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	cliCfg.Format = config.OutputFormat(flags.format)
	cliCfg.Flavor = config.Flavor(flags.flavor)
	cliCfg.Ignore = flags.ignore

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	run := runner.New(newEngine(cfg), newResolver(cfg))
	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     runner.DefaultExtensions(),
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
	}

	logger.Debug("starting span run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := run.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("span run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:         cmd.OutOrStdout(),
		Format:         format,
		Color:          colorMode,
		ShowSummary:    true,
		UnresolvedOnly: flags.unresolvedOnly,
		ExcerptWidth:   flags.excerptWidth,
		Compact:        flags.compact,
		WorkingDir:     workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result, cfg.Strict) {
	case ExitUnresolved:
		return ErrUnresolvedBlocks
	case ExitIOError:
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, result.Stats.FilesErrored, result.Stats.FilesDiscovered)
	default:
		return nil
	}
}
