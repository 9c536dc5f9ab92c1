package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdsync/internal/ui/pretty"
	"github.com/yaklabco/mdsync/pkg/runner"
)

// TextReporter formats results as styled terminal output, one line per
// block grouped under a file header.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to resolve."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil {
			continue
		}

		unresolved := unresolvedIn(file)
		if r.opts.UnresolvedOnly && unresolved == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Result.Blocks), unresolved))
		for _, block := range file.Result.Blocks {
			row := pretty.NewBlockRow(file.Result.Document, block)
			if r.opts.UnresolvedOnly && row.Resolved() {
				continue
			}
			fmt.Fprint(r.bw, r.styles.FormatBlock(row, r.opts.ExcerptWidth))
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.Unresolved, nil
}
