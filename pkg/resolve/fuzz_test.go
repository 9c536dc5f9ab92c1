package resolve_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// FuzzResolve checks that arbitrary sources and token lists always produce
// one ordered, in-bounds span per token.
func FuzzResolve(f *testing.F) {
	f.Add("# H1\n\nP1\n\n# H2\n\nP2", "# H1|P1|# H2|P2")
	f.Add("- item one\n- item one\n", "- item one|- item one")
	f.Add("1) a\n2) b", "1. a|2. b|missing")
	f.Add("héllo wörld ![x](y z.png)", "héllo|![x](y%20z.png)|")
	f.Add("", "a|b")

	f.Fuzz(func(t *testing.T, src, raws string) {
		toks := make([]mdast.Token, 0)
		for _, raw := range strings.Split(raws, "|") {
			toks = append(toks, mdast.Token{
				Raw:    raw,
				Images: []mdast.ImageToken{{Raw: raw, Destination: raw}},
			})
		}

		blocks := resolve.New(resolve.Options{PrefixLength: 4, SkipDistance: 3}).Resolve(src, toks)

		if len(blocks) != len(toks) {
			t.Fatalf("got %d blocks for %d tokens", len(blocks), len(toks))
		}
		if err := resolve.Verify(blocks, len(src)); err != nil {
			t.Fatalf("invariant violated: %v", err)
		}
		for _, block := range blocks {
			if block.Span.IsSentinel() && block.Strategy != "" {
				t.Fatalf("sentinel block %d reports strategy %q", block.Index, block.Strategy)
			}
		}
	})
}
