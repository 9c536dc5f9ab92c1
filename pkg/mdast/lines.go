package mdast

import "sort"

// BuildLines indexes content into lines, recognising LF and CRLF endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Trailing line, possibly empty.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes. Offsets at or past the end map onto the last line;
// negative offsets return (0, 0).
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || len(d.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(d.Text) {
		last := d.Lines[len(d.Lines)-1]
		return len(d.Lines), offset - last.StartOffset + 1
	}

	idx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})
	if idx >= len(d.Lines) {
		idx = len(d.Lines) - 1
	}

	line := d.Lines[idx]
	if offset < line.StartOffset {
		return 0, 0
	}

	return idx + 1, offset - line.StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(d.Lines) || col < 1 {
		return 0, false
	}

	info := d.Lines[line-1]
	offset := info.StartOffset + col - 1

	// A column one past the last byte is a valid cursor position.
	if offset > info.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns a 1-based line without its newline.
func (d *Document) LineContent(line int) string {
	if line < 1 || line > len(d.Lines) {
		return ""
	}
	info := d.Lines[line-1]
	return d.Text[info.StartOffset:info.NewlineStart]
}

// LineSpan returns the span of lines [first, last] (1-based, inclusive)
// without the final newline.
func (d *Document) LineSpan(first, last int) (Span, bool) {
	if first < 1 || last < first || last > len(d.Lines) {
		return Span{}, false
	}
	return Span{
		Start: d.Lines[first-1].StartOffset,
		End:   d.Lines[last-1].NewlineStart,
	}, true
}
