package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/runner"
)

// jsonVersion versions the JSON report layout.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single file's blocks.
type JSONFileResult struct {
	Path   string      `json:"path"`
	Blocks []JSONBlock `json:"blocks"`
	Error  string      `json:"error,omitempty"`
}

// JSONBlock is one block and its span. Start and End are omitted for
// unresolved blocks.
type JSONBlock struct {
	Index    int         `json:"index"`
	Kind     string      `json:"kind"`
	Resolved bool        `json:"resolved"`
	Start    *int        `json:"start,omitempty"`
	End      *int        `json:"end,omitempty"`
	Line     int         `json:"line,omitempty"`
	Column   int         `json:"column,omitempty"`
	Strategy string      `json:"strategy,omitempty"`
	Level    int         `json:"level,omitempty"`
	Language string      `json:"language,omitempty"`
	Raw      string      `json:"raw"`
	Images   []JSONImage `json:"images,omitempty"`
}

// JSONImage is one inline image span.
type JSONImage struct {
	Index    int    `json:"index"`
	Resolved bool   `json:"resolved"`
	Start    *int   `json:"start,omitempty"`
	End      *int   `json:"end,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Unresolved, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: runner.Stats{ByStrategy: map[string]int{}},
	}
	if result == nil {
		return output
	}
	output.Summary = result.Stats
	if output.Summary.ByStrategy == nil {
		output.Summary.ByStrategy = map[string]int{}
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:   r.opts.displayPath(file.Path),
			Blocks: make([]JSONBlock, 0),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Result != nil {
			for _, block := range file.Result.Blocks {
				fileResult.Blocks = append(fileResult.Blocks, jsonBlock(file.Result.Document, block))
			}
		}
		output.Files = append(output.Files, fileResult)
	}

	return output
}

func spanBounds(span mdast.Span) (*int, *int) {
	if span.IsSentinel() {
		return nil, nil
	}
	start, end := span.Start, span.End
	return &start, &end
}

func jsonBlock(doc *mdast.Document, block mdast.Block) JSONBlock {
	out := JSONBlock{
		Index:    block.Index,
		Kind:     string(block.Token.Kind),
		Resolved: !block.Span.IsSentinel(),
		Strategy: block.Strategy,
		Level:    block.Token.Level,
		Language: block.Token.Language(),
		Raw:      block.Token.Raw,
	}
	out.Start, out.End = spanBounds(block.Span)
	if out.Resolved && doc != nil {
		out.Line, out.Column = doc.LineAt(block.Span.Start)
	}

	for _, img := range block.Images {
		image := JSONImage{
			Index:    img.Index,
			Resolved: !img.Span.IsSentinel(),
			Strategy: img.Strategy,
		}
		image.Start, image.End = spanBounds(img.Span)
		out.Images = append(out.Images, image)
	}
	return out
}
