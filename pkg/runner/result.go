package runner

import (
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// FileResult is the resolution of one document.
type FileResult struct {
	Document *mdast.Document

	// Markup is the parsed document, kept for rendering.
	Markup markup.Document

	Blocks []mdast.Block
	Stats  resolve.Stats
}

// FileOutcome pairs a path with its result or error.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesProcessed  int `json:"filesProcessed"`
	FilesErrored    int `json:"filesErrored"`

	// FilesWithUnresolved counts files with at least one sentinel block.
	FilesWithUnresolved int `json:"filesWithUnresolved"`

	Blocks           int            `json:"blocks"`
	Resolved         int            `json:"resolved"`
	Unresolved       int            `json:"unresolved"`
	Images           int            `json:"images"`
	ImagesUnresolved int            `json:"imagesUnresolved"`
	ByStrategy       map[string]int `json:"byStrategy"`
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasUnresolved reports whether any block or image could not be located.
func (r *Result) HasUnresolved() bool {
	if r == nil {
		return false
	}
	return r.Stats.Unresolved > 0 || r.Stats.ImagesUnresolved > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{ByStrategy: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	stats := outcome.Result.Stats
	r.Stats.Blocks += stats.Blocks
	r.Stats.Resolved += stats.Resolved
	r.Stats.Unresolved += stats.Unresolved
	r.Stats.Images += stats.Images
	r.Stats.ImagesUnresolved += stats.ImagesLost
	for strategy, n := range stats.ByStrategy {
		r.Stats.ByStrategy[strategy] += n
	}
	if stats.Unresolved > 0 || stats.ImagesLost > 0 {
		r.Stats.FilesWithUnresolved++
	}
}
