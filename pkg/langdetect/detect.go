// Package langdetect guesses the language of code blocks that carry no
// info string, so the preview can tag them for syntax highlighting.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language could be determined.
const Unknown = ""

// classifierCandidates bounds the enry classifier to languages that show
// up in documentation.
//
//nolint:gochecknoglobals // read-only table
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// detector matches a language by cheap textual signals.
type detector struct {
	lang  string
	match func(content []byte, text string) bool
}

// detectors run in order; earlier entries are more specific.
//
//nolint:gochecknoglobals // read-only table
var detectors = []detector{
	{"go", func(c []byte, _ string) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("package "))
	}},
	{"python", isPython},
	{"html", func(c []byte, _ string) bool {
		lower := bytes.ToLower(bytes.TrimSpace(c))
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{"json", func(c []byte, _ string) bool {
		trimmed := bytes.TrimSpace(c)
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{"dockerfile", func(c []byte, _ string) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("FROM ")) ||
			(bytes.Contains(c, []byte("WORKDIR ")) && bytes.Contains(c, []byte("COPY ")))
	}},
	{"sql", func(_ []byte, s string) bool {
		upper := strings.ToUpper(strings.TrimSpace(s))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(_ []byte, s string) bool {
		return strings.Contains(s, "fn main()") || strings.Contains(s, "println!") ||
			strings.Contains(s, "let mut ")
	}},
	{"javascript", func(_ []byte, s string) bool {
		return strings.Contains(s, "=>") || strings.Contains(s, "console.log") ||
			strings.Contains(s, "const ")
	}},
	{"yaml", isYAML},
}

// Detect returns a fence tag for content, or Unknown. Shebangs win over
// textual patterns, which win over the statistical classifier.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	text := string(content)
	for _, d := range detectors {
		if d.match(content, text) {
			return d.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

func isPython(_ []byte, s string) bool {
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	if strings.Contains(s, "__name__") {
		return true
	}
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "import ") && !strings.HasPrefix(trimmed, "import (") ||
		strings.HasPrefix(trimmed, "from ") && strings.Contains(s, " import ")
}

// isYAML needs at least two key/value or list lines that do not look
// like code.
func isYAML(content []byte, _ string) bool {
	count := 0
	for line := range bytes.SplitSeq(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			count++
		}
	}
	return count >= 2
}

// normalize converts enry names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
