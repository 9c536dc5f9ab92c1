package annotate

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/mdast"
)

// DefaultClassPrefix prefixes the CSS classes of annotated containers.
const DefaultClassPrefix = "mdsync"

// Options configures an Annotator.
type Options struct {
	ClassPrefix string
}

// Annotator renders blocks into span-carrying containers.
type Annotator struct {
	prefix string
}

// New creates an Annotator.
func New(opts Options) *Annotator {
	prefix := opts.ClassPrefix
	if prefix == "" {
		prefix = DefaultClassPrefix
	}
	return &Annotator{prefix: prefix}
}

// Annotate renders every block of doc and wraps it with its span. Blocks
// must come from resolving doc's own tokens. Unresolved blocks are rendered
// but marked as not navigable.
func (a *Annotator) Annotate(doc markup.Document, blocks []mdast.Block) (*Tree, error) {
	tree := newTree()

	var (
		out       bytes.Buffer
		group     *Node
		groupInfo *mdast.ListInfo
		fragment  bytes.Buffer
	)

	closeGroup := func() {
		if group == nil {
			return
		}
		if groupInfo.Ordered {
			out.WriteString("</ol>\n")
		} else {
			out.WriteString("</ul>\n")
		}
		group, groupInfo = nil, nil
	}

	for i := range blocks {
		block := &blocks[i]
		list := block.Token.List

		parent := tree.Root
		if list != nil {
			if group == nil || groupInfo.Group != list.Group {
				closeGroup()
				group = &Node{ID: groupID(list.Group), Kind: KindGroup, Block: -1, Image: -1}
				groupInfo = list
				tree.add(tree.Root, group)
				a.openGroup(&out, group, list)
			}
			parent = group
		} else {
			closeGroup()
		}

		node := &Node{
			ID:       blockID(block.Index),
			Kind:     KindBlock,
			Span:     block.Span,
			Block:    block.Index,
			Image:    -1,
			Strategy: block.Strategy,
		}
		tree.add(parent, node)
		tree.blocks = append(tree.blocks, node)
		if node.Navigable() {
			tree.indexed = append(tree.indexed, node)
		}

		wrapper := &imageWrapper{annotator: a, tree: tree, block: node, spans: block.Images}
		fragment.Reset()
		if err := doc.RenderBlock(&fragment, block.Index, wrapper); err != nil {
			return nil, fmt.Errorf("annotate block %d: %w", block.Index, err)
		}
		node.HTML = fragment.String()

		tag := "div"
		if list != nil {
			tag = "li"
		}
		out.WriteString("<" + tag)
		a.writeBlockAttrs(&out, node, block.Token)
		out.WriteString(">")
		out.Write(fragment.Bytes())
		out.WriteString("</" + tag + ">\n")
	}
	closeGroup()

	tree.HTML = out.String()
	return tree, nil
}

func (a *Annotator) openGroup(out *bytes.Buffer, group *Node, list *mdast.ListInfo) {
	tag := "ul"
	if list.Ordered {
		tag = "ol"
	}
	fmt.Fprintf(out, `<%s class="%s-group" data-node="%s"`, tag, a.prefix, group.ID)
	if list.Ordered && list.Start != 1 {
		fmt.Fprintf(out, ` start="%d"`, list.Start)
	}
	out.WriteString(">\n")
}

func (a *Annotator) writeBlockAttrs(out *bytes.Buffer, node *Node, tok mdast.Token) {
	classes := []string{a.prefix + "-block"}
	if !node.Navigable() {
		classes = append(classes, a.prefix+"-unresolved")
	}
	fmt.Fprintf(out, ` class="%s" data-node="%s" data-block="%d" data-kind="%s"`,
		strings.Join(classes, " "), node.ID, node.Block, tok.Kind)
	writeSpanAttrs(out, node)
	if lang := tok.Language(); tok.Kind == mdast.KindCodeBlock && lang != "" {
		out.WriteString(` data-lang="`)
		out.Write(util.EscapeHTML([]byte(lang)))
		out.WriteString(`"`)
	}
}

func writeSpanAttrs(w io.Writer, node *Node) {
	_, _ = fmt.Fprintf(w, ` data-start="%d" data-end="%d"`, node.Span.Start, node.Span.End)
	if !node.Navigable() {
		_, _ = io.WriteString(w, ` data-sync="off"`)
	}
}

// imageWrapper surrounds each image of one block with an inline container.
type imageWrapper struct {
	annotator *Annotator
	tree      *Tree
	block     *Node
	spans     []mdast.InlineSpan
}

var _ markup.ImageWrapper = (*imageWrapper)(nil)

func (w *imageWrapper) OpenImage(out io.Writer, image int) error {
	node := &Node{
		ID:    inlineID(w.block.Block, image),
		Kind:  KindInline,
		Block: w.block.Block,
		Image: image,
	}
	// The renderer may see images the tokenizer did not report; those
	// stay unresolved.
	if image < len(w.spans) {
		node.Span = w.spans[image].Span
		node.Strategy = w.spans[image].Strategy
	}
	w.tree.add(w.block, node)

	if _, err := fmt.Fprintf(out, `<span class="%s-inline" data-node="%s" data-image="%d"`,
		w.annotator.prefix, node.ID, image); err != nil {
		return err
	}
	writeSpanAttrs(out, node)
	_, err := io.WriteString(out, ">")
	return err
}

func (w *imageWrapper) CloseImage(out io.Writer, _ int) error {
	_, err := io.WriteString(out, "</span>")
	return err
}
