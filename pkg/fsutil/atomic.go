package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the mode of files WriteAtomic creates.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content so readers see either the old or
// the new file, never a partial one. A zero mode keeps the mode of an
// existing target, or DefaultFileMode for a new one.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			mode = info.Mode().Perm()
		}
	}

	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path), content, mode)
	if err != nil {
		return classify(path, err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return classify(path, err)
	}
	return nil
}

// writeTemp stores content in a synced sibling temp file and returns its
// path. Nothing is left behind on error.
func writeTemp(dir, base string, content []byte, mode os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(name, mode)
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
