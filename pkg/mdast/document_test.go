package mdast_test

import (
	"testing"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []mdast.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []mdast.LineInfo{},
		},
		{
			name:    "heading without newline",
			content: "# H1",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 4, EndOffset: 4},
			},
		},
		{
			name:    "blank line between blocks",
			content: "# H1\n\nP1",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 5, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 8, EndOffset: 8},
			},
		},
		{
			name:    "CRLF endings",
			content: "a\r\nb\r\n",
			expected: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 6, EndOffset: 6},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lines := mdast.BuildLines([]byte(testCase.content))
			if len(lines) != len(testCase.expected) {
				t.Fatalf("expected %d lines, got %d", len(testCase.expected), len(lines))
			}
			for i, want := range testCase.expected {
				if lines[i] != want {
					t.Errorf("line %d: expected %+v, got %+v", i, want, lines[i])
				}
			}
		})
	}
}

func TestDocument_LineAtOffsetRoundTrip(t *testing.T) {
	t.Parallel()

	doc := mdast.NewDocument("", "# Title\n\nsome text\n- item\n")

	for offset := range doc.Len() {
		line, col := doc.LineAt(offset)
		if line == 0 {
			t.Fatalf("LineAt(%d) returned no position", offset)
		}
		got, ok := doc.Offset(line, col)
		if !ok || got != offset {
			t.Errorf("offset %d -> (%d,%d) -> %d (ok=%v)", offset, line, col, got, ok)
		}
	}

	if line, col := doc.LineAt(-3); line != 0 || col != 0 {
		t.Errorf("negative offset mapped to (%d,%d)", line, col)
	}
}

func TestDocument_LineSpan(t *testing.T) {
	t.Parallel()

	doc := mdast.NewDocument("", "```go\nx := 1\n```\nafter")

	span, ok := doc.LineSpan(1, 3)
	if !ok {
		t.Fatal("LineSpan(1, 3) not ok")
	}
	if got := doc.Slice(span); got != "```go\nx := 1\n```" {
		t.Errorf("unexpected slice %q", got)
	}

	if _, ok := doc.LineSpan(3, 2); ok {
		t.Error("inverted line range accepted")
	}
	if got := doc.LineContent(4); got != "after" {
		t.Errorf("LineContent(4) = %q", got)
	}
}

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		span     mdast.Span
		sentinel bool
		valid    bool
		contains []int
		excludes []int
	}{
		{
			name:     "sentinel",
			span:     mdast.Sentinel,
			sentinel: true,
			excludes: []int{0, 1},
		},
		{
			name:     "first block",
			span:     mdast.Span{Start: 0, End: 4},
			valid:    true,
			contains: []int{0, 3},
			excludes: []int{4, -1},
		},
		{
			name:     "empty non-sentinel",
			span:     mdast.Span{Start: 7, End: 7},
			excludes: []int{7},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if testCase.span.IsSentinel() != testCase.sentinel {
				t.Errorf("IsSentinel = %v", testCase.span.IsSentinel())
			}
			if testCase.span.Valid() != testCase.valid {
				t.Errorf("Valid = %v", testCase.span.Valid())
			}
			for _, off := range testCase.contains {
				if !testCase.span.Contains(off) {
					t.Errorf("expected %v to contain %d", testCase.span, off)
				}
			}
			for _, off := range testCase.excludes {
				if testCase.span.Contains(off) {
					t.Errorf("expected %v not to contain %d", testCase.span, off)
				}
			}
		})
	}
}

func TestSpan_Within(t *testing.T) {
	t.Parallel()

	block := mdast.Span{Start: 10, End: 40}
	if !(mdast.Span{Start: 12, End: 30}).Within(block) {
		t.Error("inner span should be within block")
	}
	if (mdast.Span{Start: 35, End: 45}).Within(block) {
		t.Error("overhanging span should not be within block")
	}
	if !block.InBounds(40) || block.InBounds(39) {
		t.Error("InBounds mismatch")
	}
}
