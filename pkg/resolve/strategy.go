package resolve

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Strategy names reported on resolved blocks.
const (
	StrategyExact   = "exact"
	StrategyPrefix  = "block-prefix"
	StrategyPartial = "partial"
)

// Strategy locates a token's raw text in the source at or after from.
// Implementations return ok=false when they cannot place the token;
// returned spans must start at or after from and fit the source.
type Strategy interface {
	Name() string
	Find(src, raw string, from int) (mdast.Span, bool)
}

// Exact matches the raw text verbatim.
type Exact struct{}

func (Exact) Name() string { return StrategyExact }

func (Exact) Find(src, raw string, from int) (mdast.Span, bool) {
	return indexFrom(src, raw, from)
}

// BlockPrefix retries with a block marker prepended to the raw text, for
// tokenizers that strip list bullets, ordered-list numbers, or quote
// markers from what they report, or that normalize one marker into
// another. A marker already present on raw is removed first.
type BlockPrefix struct {
	// Markers are literal prefixes tried in order.
	Markers []string
}

// DefaultMarkers are the literal block markers tried by BlockPrefix.
func DefaultMarkers() []string {
	return []string{"- ", "* ", "+ ", "> "}
}

//nolint:gochecknoglobals // compiled once
var (
	orderedMarker = regexp.MustCompile(`\d{1,9}[.)][ \t]+`)
	leadingMarker = regexp.MustCompile(`^(?:[-*+>]|\d{1,9}[.)])[ \t]+`)
)

func (BlockPrefix) Name() string { return StrategyPrefix }

func (b BlockPrefix) Find(src, raw string, from int) (mdast.Span, bool) {
	markers := b.Markers
	if markers == nil {
		markers = DefaultMarkers()
	}

	body := leadingMarker.ReplaceAllString(raw, "")
	if body == "" {
		return mdast.Span{}, false
	}

	best := mdast.Span{}
	found := false
	for _, marker := range markers {
		if span, ok := indexFrom(src, marker+body, from); ok && (!found || span.Start < best.Start) {
			best, found = span, true
		}
	}

	if span, ok := findOrdered(src, body, from); ok && (!found || span.Start < best.Start) {
		best, found = span, true
	}

	return best, found
}

// findOrdered looks for raw preceded by an ordered-list number.
func findOrdered(src, raw string, from int) (mdast.Span, bool) {
	if from >= len(src) {
		return mdast.Span{}, false
	}

	pos := from
	for {
		idx := strings.Index(src[pos:], raw)
		if idx < 0 {
			return mdast.Span{}, false
		}
		at := pos + idx

		// The marker must end exactly where raw begins and start on a
		// line boundary at or after from.
		lineStart := strings.LastIndexByte(src[:at], '\n') + 1
		markerFrom := max(lineStart, from)
		head := strings.TrimLeft(src[markerFrom:at], " \t>")
		if loc := orderedMarker.FindStringIndex(head); loc != nil && loc[0] == 0 && loc[1] == len(head) {
			start := at - len(head)
			return mdast.Span{Start: start, End: at + len(raw)}, true
		}

		pos = at + 1
		if pos >= len(src) {
			return mdast.Span{}, false
		}
	}
}

// PartialPrefix matches the first Length bytes of raw and extends the
// span to the full raw length, capped at the end of the source.
type PartialPrefix struct {
	Length int
}

func (PartialPrefix) Name() string { return StrategyPartial }

func (p PartialPrefix) Find(src, raw string, from int) (mdast.Span, bool) {
	length := p.Length
	if length <= 0 {
		length = DefaultPrefixLength
	}
	if len(raw) <= length {
		// Nothing shorter than raw itself to try.
		return mdast.Span{}, false
	}

	prefix := truncate(raw, length)
	span, ok := indexFrom(src, prefix, from)
	if !ok {
		return mdast.Span{}, false
	}
	span.End = min(span.Start+len(raw), len(src))
	return span, true
}

// indexFrom finds needle in src at or after from.
func indexFrom(src, needle string, from int) (mdast.Span, bool) {
	if needle == "" || from < 0 || from >= len(src) {
		return mdast.Span{}, false
	}
	idx := strings.Index(src[from:], needle)
	if idx < 0 {
		return mdast.Span{}, false
	}
	start := from + idx
	return mdast.Span{Start: start, End: start + len(needle)}, true
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
