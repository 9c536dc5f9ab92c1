package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/mdsync/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		if err := os.WriteFile(path, []byte("# Title\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		got, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "# Title\n" {
			t.Errorf("content = %q", got)
		}
		if snap.Path != path || snap.Size != 8 || snap.Mode.Perm() != 0o600 {
			t.Errorf("unexpected snapshot %+v", snap)
		}
	})

	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  error
	}{
		{
			name:  "missing file",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.md") },
			want:  fsutil.ErrNotFound,
		},
		{
			name:  "directory",
			setup: func(t *testing.T) string { return t.TempDir() },
			want:  fsutil.ErrIsDirectory,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := fsutil.ReadFile(context.Background(), testCase.setup(t))
			if !errors.Is(err, testCase.want) {
				t.Errorf("ReadFile() error = %v, want %v", err, testCase.want)
			}
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, _, err := fsutil.ReadFile(ctx, "unused"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestChanged(t *testing.T) {
	t.Parallel()

	read := func(t *testing.T, content string) (string, *fsutil.Snapshot) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "doc.md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		return path, snap
	}

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		_, snap := read(t, "same")
		for _, deep := range []bool{false, true} {
			changed, err := fsutil.Changed(context.Background(), snap, deep)
			if err != nil || changed {
				t.Errorf("deep=%v: changed=%v err=%v", deep, changed, err)
			}
		}
	})

	t.Run("size change", func(t *testing.T) {
		t.Parallel()

		path, snap := read(t, "short")
		if err := os.WriteFile(path, []byte("much longer"), 0o644); err != nil {
			t.Fatal(err)
		}
		changed, err := fsutil.Changed(context.Background(), snap, false)
		if err != nil || !changed {
			t.Errorf("changed=%v err=%v", changed, err)
		}
	})

	t.Run("same size and time needs deep check", func(t *testing.T) {
		t.Parallel()

		path, snap := read(t, "aaaa")
		if err := os.WriteFile(path, []byte("bbbb"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, time.Time{}, snap.ModTime); err != nil {
			t.Fatal(err)
		}

		quick, err := fsutil.Changed(context.Background(), snap, false)
		if err != nil || quick {
			t.Errorf("quick check: changed=%v err=%v", quick, err)
		}
		deep, err := fsutil.Changed(context.Background(), snap, true)
		if err != nil || !deep {
			t.Errorf("deep check: changed=%v err=%v", deep, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path, snap := read(t, "gone")
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}
		changed, err := fsutil.Changed(context.Background(), snap, false)
		if err != nil || !changed {
			t.Errorf("changed=%v err=%v", changed, err)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.Changed(context.Background(), nil, true); !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Errorf("expected ErrNilSnapshot, got %v", err)
		}
	})
}

func TestWithin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name    string
		root    string
		request string
		want    string
		wantErr bool
	}{
		{name: "plain file", root: root, request: "docs/a.md", want: filepath.Join(root, "docs", "a.md")},
		{name: "leading slash", root: root, request: "/a.md", want: filepath.Join(root, "a.md")},
		{name: "dot segments are cleaned", root: root, request: "docs/../a.md", want: filepath.Join(root, "a.md")},
		{name: "climbing is clamped to root", root: root, request: "../../etc/passwd", want: filepath.Join(root, "etc", "passwd")},
		{name: "root itself", root: root, request: "/", wantErr: true},
		{name: "empty request", root: root, request: "", wantErr: true},
		{name: "backslash", root: root, request: `..\secret`, wantErr: true},
		{name: "nul byte", root: root, request: "a\x00.md", wantErr: true},
		{name: "no root", root: "", request: "a.md", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.Within(testCase.root, testCase.request)
			if testCase.wantErr {
				if !errors.Is(err, fsutil.ErrOutsideRoot) {
					t.Errorf("expected ErrOutsideRoot, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Within() error = %v", err)
			}
			if got != testCase.want {
				t.Errorf("Within() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestWithin_Symlinks(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.md"), []byte("# secret\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "docs", "a.md"), []byte("# a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	links := map[string]string{
		"leak.md":   filepath.Join(outside, "secret.md"),
		"leakdir":   outside,
		"alias.md":  filepath.Join(root, "docs", "a.md"),
		"aliasdir":  filepath.Join(root, "docs"),
		"dangle.md": filepath.Join(outside, "gone.md"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	linkedRoot := filepath.Join(t.TempDir(), "root")
	if err := os.Symlink(root, linkedRoot); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tests := []struct {
		name    string
		root    string
		request string
		wantErr bool
	}{
		{name: "file link leaving root", root: root, request: "leak.md", wantErr: true},
		{name: "directory link leaving root", root: root, request: "leakdir/secret.md", wantErr: true},
		{name: "missing file behind outside link", root: root, request: "leakdir/new.md", wantErr: true},
		{name: "dangling link", root: root, request: "dangle.md", wantErr: true},
		{name: "file link inside root", root: root, request: "alias.md"},
		{name: "directory link inside root", root: root, request: "aliasdir/a.md"},
		{name: "missing file under root", root: root, request: "docs/new.md"},
		{name: "root reached through a link", root: linkedRoot, request: "docs/a.md"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.Within(testCase.root, testCase.request)
			if testCase.wantErr {
				if !errors.Is(err, fsutil.ErrOutsideRoot) {
					t.Errorf("expected ErrOutsideRoot, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Within() error = %v", err)
			}
			want := filepath.Join(testCase.root, filepath.FromSlash(testCase.request))
			if got != want {
				t.Errorf("Within() = %q, want %q", got, want)
			}
		})
	}
}
