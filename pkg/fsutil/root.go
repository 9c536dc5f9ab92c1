package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for request paths that escape the root.
var ErrOutsideRoot = errors.New("path escapes root")

// Within joins a slash-separated request path onto root and returns the
// cleaned filesystem path. Paths that climb out of root are rejected,
// lexically or through a symlink. An empty root disables file access.
func Within(root, requestPath string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: no root configured", ErrOutsideRoot)
	}
	if strings.ContainsRune(requestPath, 0) || strings.Contains(requestPath, `\`) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, requestPath)
	}

	cleaned := path.Clean("/" + requestPath)
	if cleaned == "/" {
		return "", fmt.Errorf("%w: %q names the root itself", ErrOutsideRoot, requestPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	full := filepath.Join(absRoot, filepath.FromSlash(cleaned))
	if !inside(absRoot, full) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, requestPath)
	}

	realRoot, err := resolveExisting(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	realFull, err := resolveExisting(full)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrOutsideRoot, requestPath, err)
	}
	if !inside(realRoot, realFull) {
		return "", fmt.Errorf("%w: %q links outside the root", ErrOutsideRoot, requestPath)
	}
	return full, nil
}

func inside(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveExisting evaluates symlinks in the longest existing prefix of p
// and appends the missing remainder unchanged. Dangling links are errors
// since their target cannot be checked.
func resolveExisting(p string) (string, error) {
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if _, lerr := os.Lstat(p); lerr == nil {
			return "", fmt.Errorf("dangling symlink %s", p)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p, nil
		}
		rest = append([]string{filepath.Base(p)}, rest...)
		p = parent
	}
}
