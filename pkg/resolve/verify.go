package resolve

import (
	"fmt"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Stats summarises one resolution pass.
type Stats struct {
	Blocks     int            `json:"blocks"`
	Resolved   int            `json:"resolved"`
	Unresolved int            `json:"unresolved"`
	Images     int            `json:"images"`
	ImagesLost int            `json:"imagesUnresolved"`
	ByStrategy map[string]int `json:"byStrategy"`
}

// Summarize counts resolved and unresolved blocks and images.
func Summarize(blocks []mdast.Block) Stats {
	stats := Stats{
		Blocks:     len(blocks),
		ByStrategy: make(map[string]int),
	}
	for _, block := range blocks {
		if block.Span.IsSentinel() {
			stats.Unresolved++
		} else {
			stats.Resolved++
			stats.ByStrategy[block.Strategy]++
		}
		for _, img := range block.Images {
			stats.Images++
			if img.Span.IsSentinel() {
				stats.ImagesLost++
			}
		}
	}
	return stats
}

// InvariantError reports a span that breaks ordering or bounds.
type InvariantError struct {
	Block   int
	Span    mdast.Span
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("block %d %s: %s", e.Block, e.Span, e.Message)
}

// Verify checks that non-sentinel spans fit the document, do not overlap,
// increase in token order, and that image spans lie inside their block.
func Verify(blocks []mdast.Block, docLen int) error {
	prevEnd := 0
	for _, block := range blocks {
		if block.Span.IsSentinel() {
			continue
		}
		if !block.Span.InBounds(docLen) {
			return &InvariantError{Block: block.Index, Span: block.Span,
				Message: fmt.Sprintf("outside document of length %d", docLen)}
		}
		if block.Span.Start < prevEnd {
			return &InvariantError{Block: block.Index, Span: block.Span,
				Message: fmt.Sprintf("starts before previous end %d", prevEnd)}
		}
		prevEnd = block.Span.End

		for _, img := range block.Images {
			if img.Span.IsSentinel() {
				continue
			}
			if !img.Span.Within(block.Span) {
				return &InvariantError{Block: block.Index, Span: img.Span,
					Message: fmt.Sprintf("image %d outside block", img.Index)}
			}
		}
	}
	return nil
}
