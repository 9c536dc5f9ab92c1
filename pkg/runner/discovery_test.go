package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/mdsync/pkg/runner"
)

// tree creates files (relative, slash-separated) under a temp dir.
func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# "+name+"\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

// relative strips root from discovered paths for comparison.
func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := []string{
		"README.md",
		"notes.txt",
		"docs/guide.markdown",
		"docs/api/ref.MD",
		"docs/draft.md",
		"vendor/lib/README.md",
		".github/TEMPLATE.md",
		"docs/.hidden.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults skip hidden and non-markdown",
			want: []string{"README.md", "docs/api/ref.MD", "docs/draft.md", "docs/guide.markdown", "vendor/lib/README.md"},
		},
		{
			name: "exclude directory",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**"}},
			want: []string{"README.md", "docs/api/ref.MD", "docs/draft.md", "docs/guide.markdown"},
		},
		{
			name: "exclude by base name anywhere",
			opts: runner.Options{ExcludeGlobs: []string{"draft.md", "README.md"}},
			want: []string{"docs/api/ref.MD", "docs/guide.markdown"},
		},
		{
			name: "double star prefix matches top level too",
			opts: runner.Options{ExcludeGlobs: []string{"**/api"}},
			want: []string{"README.md", "docs/draft.md", "docs/guide.markdown", "vendor/lib/README.md"},
		},
		{
			name: "include restricts",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/api/ref.MD", "docs/draft.md", "docs/guide.markdown"},
		},
		{
			name: "single star stays in one directory",
			opts: runner.Options{IncludeGlobs: []string{"docs/*.md"}},
			want: []string{"docs/draft.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".TXT"}},
			want: []string{"notes.txt"},
		},
		{
			name: "explicit file and overlapping directory are de-duplicated",
			opts: runner.Options{Paths: []string{"docs/draft.md", "docs", "docs/draft.md"}},
			want: []string{"docs/api/ref.MD", "docs/draft.md", "docs/guide.markdown"},
		},
		{
			name: "explicit hidden file is honored",
			opts: runner.Options{Paths: []string{".github/TEMPLATE.md"}},
			want: []string{".github/TEMPLATE.md"},
		},
	}

	root := tree(t, files...)

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := testCase.opts
			opts.WorkingDir = root

			got, err := runner.Discover(context.Background(), opts)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if diff := cmp.Diff(testCase.want, relative(t, root, got)); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	root := tree(t, "a.md")

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, Paths: []string{"nope"}})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	t.Run("bad glob", func(t *testing.T) {
		t.Parallel()

		_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, ExcludeGlobs: []string{"[a"}})
		if err == nil {
			t.Error("expected glob error")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Discover(ctx, runner.Options{WorkingDir: root})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := tree(t, "docs/a.md", "shared/b.md")
	if err := os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "docs", "linked")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "missing.md"), filepath.Join(root, "docs", "broken.md")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	plain, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, Paths: []string{"docs"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if diff := cmp.Diff([]string{"docs/a.md"}, relative(t, root, plain)); diff != "" {
		t.Errorf("without following (-want +got):\n%s", diff)
	}

	followed, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root, Paths: []string{"docs"}, FollowSymlinks: true,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if diff := cmp.Diff([]string{"docs/a.md", "shared/b.md"}, relative(t, root, followed)); diff != "" {
		t.Errorf("following (-want +got):\n%s", diff)
	}
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{".md", ".markdown"}, runner.DefaultExtensions()); diff != "" {
		t.Error(diff)
	}
}
