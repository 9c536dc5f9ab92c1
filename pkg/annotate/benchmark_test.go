package annotate_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/parser/goldmark"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// benchDocument builds a document of n sections mixing the block kinds
// a render pass has to map.
func benchDocument(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "## Section %d\n\n", i)
		fmt.Fprintf(&b, "Paragraph %d with *emphasis* and ![shot %d](img/shot-%d.png).\n\n", i, i, i)
		b.WriteString("- first item\n- second item\n\n")
		b.WriteString("```go\nfunc main() {}\n```\n\n")
		b.WriteString("> quoted line\n\n")
	}
	return b.String()
}

func BenchmarkRenderPass(b *testing.B) {
	ctx := context.Background()
	engine := goldmark.New(goldmark.FlavorGFM)
	resolver := resolve.New(resolve.DefaultOptions())
	annotator := annotate.New(annotate.Options{})

	for _, sections := range []int{10, 100, 1000} {
		src := benchDocument(sections)
		doc, err := engine.Parse(ctx, []byte(src))
		if err != nil {
			b.Fatal(err)
		}
		blocks := resolver.Resolve(src, doc.Tokens())

		b.Run(fmt.Sprintf("parse/%d", sections), func(b *testing.B) {
			for b.Loop() {
				if _, err := engine.Parse(ctx, []byte(src)); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("resolve/%d", sections), func(b *testing.B) {
			for b.Loop() {
				resolver.Resolve(src, doc.Tokens())
			}
		})
		b.Run(fmt.Sprintf("annotate/%d", sections), func(b *testing.B) {
			for b.Loop() {
				if _, err := annotator.Annotate(doc, blocks); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
