package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Placeholders shown for unresolved blocks.
const (
	noLocation = "-"
	noStrategy = "unresolved"
)

// BlockRow is the display form of one resolved block.
type BlockRow struct {
	Index    int
	Kind     string
	Span     mdast.Span
	Location string
	Strategy string
	Excerpt  string

	Images     int
	ImagesLost int
}

// Resolved reports whether the row has a source span.
func (r BlockRow) Resolved() bool {
	return r.Strategy != noStrategy
}

// NewBlockRow describes block against its document. Unresolved blocks
// show the tokenizer's raw text instead of a source slice.
func NewBlockRow(doc *mdast.Document, block mdast.Block) BlockRow {
	row := BlockRow{
		Index:    block.Index,
		Kind:     string(block.Token.Kind),
		Span:     block.Span,
		Location: noLocation,
		Strategy: noStrategy,
		Excerpt:  block.Token.Raw,
		Images:   len(block.Images),
	}
	for _, img := range block.Images {
		if img.Span.IsSentinel() {
			row.ImagesLost++
		}
	}

	if block.Span.IsSentinel() || doc == nil {
		return row
	}

	line, col := doc.LineAt(block.Span.Start)
	row.Location = fmt.Sprintf("%d:%d", line, col)
	row.Strategy = block.Strategy
	row.Excerpt = doc.Slice(block.Span)
	return row
}

// FormatFileHeader formats a file path with its block counts.
func (s *Styles) FormatFileHeader(path string, blocks, unresolved int) string {
	counts := fmt.Sprintf("(%d blocks)", blocks)
	if unresolved > 0 {
		counts = fmt.Sprintf("(%d blocks, %s)", blocks, s.Unresolved.Render(fmt.Sprintf("%d unresolved", unresolved)))
	}
	return s.FilePath.Render(path) + " " + s.Dim.Render(counts)
}

// FormatBlock formats one block as an indented line.
// Example: "  #3  paragraph  [10,14)  3:1  exact  P1".
func (s *Styles) FormatBlock(row BlockRow, excerptWidth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s  %s  ", s.Dim.Render(fmt.Sprintf("#%d", row.Index)), s.Kind.Render(row.Kind))
	if row.Resolved() {
		fmt.Fprintf(&b, "%s  %s  %s",
			s.Resolved.Render(row.Span.String()),
			s.Location.Render(row.Location),
			s.Strategy.Render(row.Strategy))
	} else {
		b.WriteString(s.Unresolved.Render(noStrategy))
	}

	if row.Images > 0 {
		images := fmt.Sprintf("  images %d", row.Images)
		if row.ImagesLost > 0 {
			images += fmt.Sprintf(" (%d unresolved)", row.ImagesLost)
		}
		b.WriteString(s.Dim.Render(images))
	}

	if excerpt := Excerpt(row.Excerpt, excerptWidth); excerpt != "" {
		b.WriteString("  " + s.Excerpt.Render(excerpt))
	}
	b.WriteString("\n")
	return b.String()
}

// Excerpt returns the first line of text, cut to at most width runes
// with an ellipsis. A non-positive width disables truncation.
func Excerpt(text string, width int) string {
	line, _, multi := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimRight(line, "\r")

	if width > 0 && utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	if multi {
		return line + " …"
	}
	return line
}
