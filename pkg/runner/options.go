// Package runner resolves block spans for many Markdown files at once.
package runner

import "runtime"

// Options selects the files of a run and how many are resolved at once.
type Options struct {
	// Paths are files or directories, relative to WorkingDir. Empty
	// means WorkingDir itself.
	Paths []string

	// WorkingDir defaults to the process working directory.
	WorkingDir string

	// Extensions are lowercase with a leading dot; see DefaultExtensions.
	Extensions []string

	// IncludeGlobs, when set, must match a file's path relative to
	// WorkingDir. ExcludeGlobs skip files and prune directories.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs caps concurrent documents. Zero or less means one per CPU.
	Jobs int
}

// DefaultExtensions returns the extensions treated as Markdown.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	return DefaultExtensions()
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) > 0 {
		return o.Paths
	}
	return []string{"."}
}

// workers is the pool size for a run over files documents.
func (o Options) workers(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return max(1, min(jobs, files))
}
