// Package edit describes byte-range replacements of a source document and
// applies them as a single new text.
package edit

// TextEdit replaces bytes [Start, End) with NewText.
type TextEdit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"text"`
}

// Builder accumulates edits against one version of a text.
type Builder struct {
	edits []TextEdit
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{edits: make([]TextEdit, 0)}
}

// Replace adds an edit replacing bytes [start, end) with text.
func (b *Builder) Replace(start, end int, text string) *Builder {
	b.edits = append(b.edits, TextEdit{Start: start, End: end, NewText: text})
	return b
}

// Insert adds an edit inserting text at offset.
func (b *Builder) Insert(offset int, text string) *Builder {
	return b.Replace(offset, offset, text)
}

// Delete adds an edit removing bytes [start, end).
func (b *Builder) Delete(start, end int) *Builder {
	return b.Replace(start, end, "")
}

// Edits returns the accumulated edits in insertion order.
func (b *Builder) Edits() []TextEdit {
	return b.edits
}
