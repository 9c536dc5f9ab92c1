// Package mdast holds the data model shared by the synchronization
// pipeline: source documents, block tokens, and the spans that tie
// rendered elements back to byte ranges of the source.
package mdast

// Document is an immutable view of the source text being edited.
// A new Document is built for every text change.
type Document struct {
	// Path is the file path, empty for in-memory text.
	Path string

	Text  string
	Lines []LineInfo
}

// LineInfo holds metadata for a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For the last line without a newline it equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// NewDocument indexes text into lines.
func NewDocument(path, text string) *Document {
	return &Document{
		Path:  path,
		Text:  text,
		Lines: BuildLines([]byte(text)),
	}
}

// Len returns the document length in bytes.
func (d *Document) Len() int {
	return len(d.Text)
}

// Slice returns the source text under span, or "" for spans outside the
// document.
func (d *Document) Slice(span Span) string {
	if !span.InBounds(len(d.Text)) {
		return ""
	}
	return d.Text[span.Start:span.End]
}
