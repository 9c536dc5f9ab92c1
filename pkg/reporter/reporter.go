// Package reporter writes span resolution results for people and tools.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdsync/pkg/runner"
)

// Reporter writes one run's results. Report returns the number of
// unresolved blocks it saw.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

//nolint:gochecknoglobals // constructor table
var constructors = map[Format]func(Options) Reporter{
	FormatText:  func(opts Options) Reporter { return NewTextReporter(opts) },
	FormatTable: func(opts Options) Reporter { return NewTableReporter(opts) },
	FormatJSON:  func(opts Options) Reporter { return NewJSONReporter(opts) },
}

// New returns the reporter for opts.Format, filling unset options from
// DefaultOptions.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ExcerptWidth == 0 {
		opts.ExcerptWidth = defaults.ExcerptWidth
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	construct, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return construct(opts), nil
}

func unresolvedIn(file runner.FileOutcome) int {
	if file.Result == nil {
		return 0
	}
	return file.Result.Stats.Unresolved
}
