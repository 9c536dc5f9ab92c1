package runner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/fsutil"
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// Runner tokenizes and resolves documents concurrently.
type Runner struct {
	Engine   markup.Engine
	Resolver *resolve.Resolver
	Logger   *log.Logger
}

// New creates a Runner. A nil resolver uses resolve.DefaultOptions.
func New(engine markup.Engine, resolver *resolve.Resolver) *Runner {
	if resolver == nil {
		resolver = resolve.New(resolve.DefaultOptions())
	}
	return &Runner{Engine: engine, Resolver: resolver, Logger: logging.Default()}
}

// Run discovers files under opts.Paths and resolves them on a bounded
// worker pool. Outcomes are ordered by path. Per-file failures are
// recorded on the outcome; only discovery and cancellation fail the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.workers(len(files))

	r.logger().Debug("resolving files", logging.FieldFilesDiscovered, len(files), logging.FieldJobs, jobs)

	outcomes := make([]FileOutcome, len(files))
	group := new(errgroup.Group)
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := r.ProcessFile(ctx, path)
			outcomes[i] = FileOutcome{Path: path, Result: res, Error: err}
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return logging.Default()
	}
	return r.Logger
}

// ProcessFile reads, tokenizes, and resolves one document.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.ProcessText(ctx, path, string(content))
}

// ProcessText tokenizes and resolves in-memory text.
func (r *Runner) ProcessText(ctx context.Context, path, text string) (*FileResult, error) {
	parsed, err := r.Engine.Parse(ctx, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	blocks := r.Resolver.Resolve(text, parsed.Tokens())
	if err := resolve.Verify(blocks, len(text)); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	stats := resolve.Summarize(blocks)
	r.logger().Debug("resolved file",
		logging.FieldPath, path,
		logging.FieldBlocks, stats.Blocks,
		logging.FieldUnresolved, stats.Unresolved)

	return &FileResult{
		Document: mdast.NewDocument(path, text),
		Markup:   parsed,
		Blocks:   blocks,
		Stats:    stats,
	}, nil
}
