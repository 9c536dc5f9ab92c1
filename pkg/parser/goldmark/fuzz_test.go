package goldmark_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/yaklabco/mdsync/pkg/parser/goldmark"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// FuzzParse checks that any input yields tokens whose raw text comes from
// the source, spans that satisfy the resolver invariants, and blocks that
// render.
func FuzzParse(f *testing.F) {
	f.Add("# H1\n\nP1")
	f.Add("- a\n- a\n\n1. b\n")
	f.Add("```\n```")
	f.Add("Title\n---\n")
	f.Add("> ![x](y z.png)\n")
	f.Add("| a |\n|---|\n| 1 |\n")
	f.Add("<div>\n\n</div>\n")
	f.Add("\r\n\r\n- \r\n")

	p := goldmark.New(goldmark.FlavorGFM, goldmark.WithLanguageDetection(true))

	f.Fuzz(func(t *testing.T, src string) {
		doc, err := p.Parse(context.Background(), []byte(src))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		toks := doc.Tokens()
		for i, tok := range toks {
			if tok.Raw != "" && !strings.Contains(src, tok.Raw) {
				t.Fatalf("token %d raw %q not in source", i, tok.Raw)
			}
			if err := doc.RenderBlock(io.Discard, i, nil); err != nil {
				t.Fatalf("render %d: %v", i, err)
			}
		}

		blocks := resolve.New(resolve.DefaultOptions()).Resolve(src, toks)
		if err := resolve.Verify(blocks, len(src)); err != nil {
			t.Fatalf("invariant violated: %v", err)
		}
	})
}
