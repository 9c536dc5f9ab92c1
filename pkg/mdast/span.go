package mdast

import "fmt"

// Span is a half-open byte range [Start, End) into a source document.
//
// The zero Span is the sentinel: it marks a block or inline element whose
// location could not be determined. Sentinel spans are never navigation
// targets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Sentinel is the span assigned to unresolved elements.
var Sentinel = Span{} //nolint:gochecknoglobals // zero value, read-only

// IsSentinel reports whether s is the unresolved marker.
func (s Span) IsSentinel() bool {
	return s.Start == 0 && s.End == 0
}

// Valid reports whether s is a usable navigation target: not the sentinel
// and non-empty.
func (s Span) Valid() bool {
	return !s.IsSentinel() && s.End > s.Start
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Within reports whether s lies entirely inside outer.
func (s Span) Within(outer Span) bool {
	return s.Start >= outer.Start && s.End <= outer.End
}

// InBounds reports whether s fits a document of docLen bytes.
func (s Span) InBounds(docLen int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= docLen
}

func (s Span) String() string {
	if s.IsSentinel() {
		return "[unresolved]"
	}
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
