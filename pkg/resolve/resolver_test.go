package resolve_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

func tokens(raws ...string) []mdast.Token {
	toks := make([]mdast.Token, len(raws))
	for i, raw := range raws {
		toks[i] = mdast.Token{Kind: mdast.KindParagraph, Raw: raw}
	}
	return toks
}

func spans(blocks []mdast.Block) []mdast.Span {
	out := make([]mdast.Span, len(blocks))
	for i, b := range blocks {
		out[i] = b.Span
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 50)

	tests := []struct {
		name       string
		src        string
		raws       []string
		want       []mdast.Span
		strategies []string
	}{
		{
			name:       "headings and paragraphs",
			src:        "# H1\n\nP1\n\n# H2\n\nP2",
			raws:       []string{"# H1", "P1", "# H2", "P2"},
			want:       []mdast.Span{{Start: 0, End: 4}, {Start: 6, End: 8}, {Start: 10, End: 14}, {Start: 16, End: 18}},
			strategies: []string{"exact", "exact", "exact", "exact"},
		},
		{
			name:       "duplicate list items resolve to distinct occurrences",
			src:        "- item one\n- item one\n",
			raws:       []string{"- item one", "- item one"},
			want:       []mdast.Span{{Start: 0, End: 10}, {Start: 11, End: 21}},
			strategies: []string{"exact", "exact"},
		},
		{
			name:       "normalized bullet marker",
			src:        "* alpha\n* beta\n",
			raws:       []string{"- alpha", "- beta"},
			want:       []mdast.Span{{Start: 0, End: 7}, {Start: 8, End: 14}},
			strategies: []string{"block-prefix", "block-prefix"},
		},
		{
			name:       "normalized ordered marker",
			src:        "1) first\n2) second",
			raws:       []string{"1. first", "2. second"},
			want:       []mdast.Span{{Start: 0, End: 8}, {Start: 9, End: 18}},
			strategies: []string{"block-prefix", "block-prefix"},
		},
		{
			name:       "partial prefix extends to raw length",
			src:        long + "abc\n\nnext",
			raws:       []string{long + "XYZ", "next"},
			want:       []mdast.Span{{Start: 0, End: 53}, {Start: 55, End: 59}},
			strategies: []string{"partial", "exact"},
		},
		{
			name:       "partial prefix capped at document end",
			src:        long + "b",
			raws:       []string{long + strings.Repeat("z", 20)},
			want:       []mdast.Span{{Start: 0, End: 51}},
			strategies: []string{"partial"},
		},
		{
			name:       "failure skips ahead",
			src:        "aaa found\n" + strings.Repeat("x", 60) + "\nfound late",
			raws:       []string{"nothing like this", "found"},
			want:       []mdast.Span{mdast.Sentinel, {Start: 71, End: 76}},
			strategies: []string{"", "exact"},
		},
		{
			name:       "empty raw does not advance",
			src:        "# H1",
			raws:       []string{"", "# H1"},
			want:       []mdast.Span{mdast.Sentinel, {Start: 0, End: 4}},
			strategies: []string{"", "exact"},
		},
		{
			name:       "skip is capped at document end",
			src:        "short",
			raws:       []string{"missing", "also missing", "short"},
			want:       []mdast.Span{mdast.Sentinel, mdast.Sentinel, mdast.Sentinel},
			strategies: []string{"", "", ""},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res := resolve.New(resolve.DefaultOptions())
			blocks := res.Resolve(testCase.src, tokens(testCase.raws...))

			require.Len(t, blocks, len(testCase.raws))
			assert.Equal(t, testCase.want, spans(blocks))
			for i, block := range blocks {
				assert.Equal(t, i, block.Index)
				assert.Equal(t, testCase.strategies[i], block.Strategy, "block %d", i)
			}
			require.NoError(t, resolve.Verify(blocks, len(testCase.src)))
		})
	}
}

func TestResolver_Idempotent(t *testing.T) {
	t.Parallel()

	src := "# Title\n\nsame\n\nsame\n\n- a\n- a\n"
	toks := tokens("# Title", "same", "same", "- a", "- a")
	res := resolve.New(resolve.Options{})

	first := res.Resolve(src, toks)
	second := res.Resolve(src, toks)

	assert.Equal(t, first, second)
	assert.Equal(t, []mdast.Span{
		{Start: 0, End: 7}, {Start: 9, End: 13}, {Start: 15, End: 19}, {Start: 21, End: 24}, {Start: 25, End: 28},
	}, spans(first))
}

func TestResolver_Images(t *testing.T) {
	t.Parallel()

	image := func(alt, dest, title string) mdast.ImageToken {
		return mdast.ImageToken{
			Raw:         resolve.ImageRaw(alt, dest, title),
			Destination: dest,
			Alt:         alt,
			Title:       title,
		}
	}

	tests := []struct {
		name     string
		src      string
		token    mdast.Token
		want     mdast.Span
		strategy string
	}{
		{
			name: "exact image inside paragraph",
			src:  "Look ![alt](img/a.png) here",
			token: mdast.Token{Raw: "Look ![alt](img/a.png) here",
				Images: []mdast.ImageToken{image("alt", "img/a.png", "")}},
			want:     mdast.Span{Start: 5, End: 22},
			strategy: resolve.StrategyImageExact,
		},
		{
			name: "percent-encoded destination",
			src:  "![pic](img/my%20photo.png)",
			token: mdast.Token{Raw: "![pic](img/my%20photo.png)",
				Images: []mdast.ImageToken{image("pic", "img/my photo.png", "")}},
			want:     mdast.Span{Start: 0, End: 26},
			strategy: resolve.StrategyImageEncoded,
		},
		{
			name: "title in single quotes falls back to prefix",
			src:  "![a](b.png 'T')",
			token: mdast.Token{Raw: "![a](b.png 'T')",
				Images: []mdast.ImageToken{image("a", "b.png", "T")}},
			want:     mdast.Span{Start: 0, End: 15},
			strategy: resolve.StrategyImagePartial,
		},
		{
			name: "image missing from block text",
			src:  "plain text",
			token: mdast.Token{Raw: "plain text",
				Images: []mdast.ImageToken{image("zzz", "q.png", "")}},
			want: mdast.Sentinel,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			blocks := resolve.New(resolve.DefaultOptions()).Resolve(testCase.src, []mdast.Token{testCase.token})
			require.Len(t, blocks, 1)
			require.Len(t, blocks[0].Images, 1)

			img := blocks[0].Images[0]
			assert.Equal(t, testCase.want, img.Span)
			assert.Equal(t, testCase.strategy, img.Strategy)
			if !img.Span.IsSentinel() {
				assert.True(t, img.Span.Within(blocks[0].Span))
			}
		})
	}
}

func TestResolver_ImagesSearchFromBlockStart(t *testing.T) {
	t.Parallel()

	src := "![x](a.png)\n\ntext ![x](a.png)"
	img := mdast.ImageToken{Raw: "![x](a.png)", Destination: "a.png", Alt: "x"}
	toks := []mdast.Token{
		{Raw: "![x](a.png)", Images: []mdast.ImageToken{img}},
		{Raw: "text ![x](a.png)", Images: []mdast.ImageToken{img}},
	}

	blocks := resolve.New(resolve.DefaultOptions()).Resolve(src, toks)

	assert.Equal(t, mdast.Span{Start: 0, End: 11}, blocks[0].Images[0].Span)
	assert.Equal(t, mdast.Span{Start: 18, End: 29}, blocks[1].Images[0].Span)
}

func TestResolver_SentinelBlockHasSentinelImages(t *testing.T) {
	t.Parallel()

	toks := []mdast.Token{{
		Raw:    "not present",
		Images: []mdast.ImageToken{{Raw: "![a](b)"}, {Raw: "![c](d)"}},
	}}

	blocks := resolve.New(resolve.DefaultOptions()).Resolve("![a](b) ![c](d)", toks)

	require.Len(t, blocks[0].Images, 2)
	for _, img := range blocks[0].Images {
		assert.True(t, img.Span.IsSentinel())
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	blocks := resolve.New(resolve.DefaultOptions()).Resolve("# H1\n\nP1", tokens("# H1", "gone", "P1"))
	stats := resolve.Summarize(blocks)

	assert.Equal(t, 3, stats.Blocks)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 2, stats.Unresolved)
	assert.Equal(t, map[string]int{"exact": 1}, stats.ByStrategy)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	overlapping := []mdast.Block{
		{Index: 0, Span: mdast.Span{Start: 0, End: 10}},
		{Index: 1, Span: mdast.Sentinel},
		{Index: 2, Span: mdast.Span{Start: 5, End: 12}},
	}
	err := resolve.Verify(overlapping, 20)
	var invErr *resolve.InvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 2, invErr.Block)

	outOfBounds := []mdast.Block{{Index: 0, Span: mdast.Span{Start: 3, End: 30}}}
	require.Error(t, resolve.Verify(outOfBounds, 20))

	strayImage := []mdast.Block{{
		Index:  0,
		Span:   mdast.Span{Start: 0, End: 10},
		Images: []mdast.InlineSpan{{Span: mdast.Span{Start: 8, End: 14}}},
	}}
	require.Error(t, resolve.Verify(strayImage, 20))
}
