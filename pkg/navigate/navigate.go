// Package navigate maps between source offsets and annotated preview
// nodes.
package navigate

import (
	"sort"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Forward returns the block whose span contains offset. Only navigable
// blocks are considered; ok is false when none contains the offset.
func Forward(tree *annotate.Tree, offset int) (*annotate.Node, bool) {
	indexed := tree.Indexed()

	// Indexed spans are ordered and disjoint, so ends increase too.
	i := sort.Search(len(indexed), func(i int) bool {
		return indexed[i].Span.End > offset
	})
	if i < len(indexed) && indexed[i].Span.Contains(offset) {
		return indexed[i], true
	}
	return nil, false
}

// Reverse walks up from target to the nearest node with a navigable span.
func Reverse(target *annotate.Node) (*annotate.Node, mdast.Span, bool) {
	for node := target; node != nil; node = node.Parent {
		if node.Navigable() {
			return node, node.Span, true
		}
		if node.Kind == annotate.KindBlock {
			// An unresolved block never hands navigation to its list or
			// the document.
			break
		}
	}
	return nil, mdast.Sentinel, false
}

// ScrollFraction approximates where span sits in a document of docLen
// bytes, from 0 (top) to 1 (bottom).
func ScrollFraction(span mdast.Span, docLen int) float64 {
	if docLen <= 0 || span.Start <= 0 {
		return 0
	}
	if span.Start >= docLen {
		return 1
	}
	return float64(span.Start) / float64(docLen)
}
