package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// globSet matches slash-separated relative paths against ignore or
// include patterns. Patterns without a slash also match the base name,
// and a leading "**/" also matches at the top level.
type globSet struct {
	full []glob.Glob
	base []glob.Glob
}

func compileGlobs(patterns []string) (globSet, error) {
	var set globSet
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return globSet{}, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		set.full = append(set.full, g)

		switch {
		case strings.HasPrefix(pattern, "**/"):
			top, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/')
			if err != nil {
				return globSet{}, fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
			set.full = append(set.full, top)
		case !strings.Contains(pattern, "/"):
			set.base = append(set.base, g)
		}
	}
	return set, nil
}

func (s globSet) empty() bool {
	return len(s.full) == 0
}

// match reports whether rel matches. Directories also match patterns
// that name their contents, such as "vendor/**".
func (s globSet) match(rel string, dir bool) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for _, g := range s.full {
		if g.Match(rel) || (dir && g.Match(rel+"/")) {
			return true
		}
	}
	for _, g := range s.base {
		if g.Match(base) {
			return true
		}
	}
	return false
}
