package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Discover finds Markdown files matching opts under the working directory.
// It returns a sorted, de-duplicated list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	filter, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicit files bypass the hidden-file rule but not the globs.
			if filter.file(absPath) {
				files = append(files, absPath)
			}
			continue
		}

		found, err := filter.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	files = lo.Uniq(files)
	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// filter applies extension and glob rules relative to workDir.
type filter struct {
	workDir        string
	extensions     []string
	include        globSet
	exclude        globSet
	followSymlinks bool
}

func newFilter(workDir string, opts Options) (*filter, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}

	return &filter{
		workDir: workDir,
		extensions: lo.Map(opts.effectiveExtensions(), func(ext string, _ int) string {
			return strings.ToLower(ext)
		}),
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
	}, nil
}

func (f *filter) rel(path string) string {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (f *filter) file(path string) bool {
	if !slices.Contains(f.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	rel := f.rel(path)
	if f.exclude.match(rel, false) {
		return false
	}
	return f.include.empty() || f.include.match(rel, false)
}

// walk collects matching files under root. Hidden entries below root are
// skipped, and so are excluded directories.
func (f *filter) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && f.exclude.match(f.rel(path), true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			if target.IsDir() {
				if !f.followSymlinks {
					return nil
				}
				// Walk the resolved target; WalkDir does not follow
				// a symlinked root by itself.
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // unresolvable symlinks are skipped
				}
				sub, err := f.walk(ctx, resolved)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if f.file(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}
