package goldmark

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/mdast"
)

var _ markup.Document = (*Document)(nil)

// Document is a parsed Markdown source. It is not safe for concurrent
// RenderBlock calls.
type Document struct {
	parser *Parser
	source []byte
	tokens []mdast.Token
	nodes  []blockNode

	images   *imageRenderer
	renderer renderer.Renderer
}

// Tokens returns the top-level block tokens in document order.
func (d *Document) Tokens() []mdast.Token {
	return d.tokens
}

// RenderBlock writes the HTML of the token at index. List items render
// their content only; the caller owns the <li> and list elements.
func (d *Document) RenderBlock(w io.Writer, index int, images markup.ImageWrapper) error {
	if index < 0 || index >= len(d.nodes) {
		return fmt.Errorf("render block %d: index out of range [0,%d)", index, len(d.nodes))
	}

	if d.renderer == nil {
		d.images = &imageRenderer{unsafe: d.parser.unsafe}
		d.renderer = d.parser.newRenderer(d.images)
	}
	d.images.wrapper = images
	d.images.next = 0
	defer func() { d.images.wrapper = nil }()

	block := d.nodes[index]
	if !block.item {
		if err := d.renderer.Render(w, d.source, block.node); err != nil {
			return fmt.Errorf("render block %d: %w", index, err)
		}
		return nil
	}

	for child := block.node.FirstChild(); child != nil; child = child.NextSibling() {
		if err := d.renderer.Render(w, d.source, child); err != nil {
			return fmt.Errorf("render block %d: %w", index, err)
		}
	}
	return nil
}

// imageRenderer writes <img> elements the way goldmark's HTML renderer
// does, letting a wrapper surround each one.
type imageRenderer struct {
	unsafe  bool
	wrapper markup.ImageWrapper
	next    int
}

func (r *imageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *imageRenderer) renderImage(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	img, ok := node.(*ast.Image)
	if !ok {
		return ast.WalkContinue, nil
	}

	index := r.next
	r.next++

	if r.wrapper != nil {
		if err := r.wrapper.OpenImage(w, index); err != nil {
			return ast.WalkStop, fmt.Errorf("open image %d: %w", index, err)
		}
	}

	_, _ = w.WriteString(`<img src="`)
	if r.unsafe || !html.IsDangerousURL(img.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(img.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(altText(img, source))))
	_ = w.WriteByte('"')
	if img.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(img.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(">")

	if r.wrapper != nil {
		if err := r.wrapper.CloseImage(w, index); err != nil {
			return ast.WalkStop, fmt.Errorf("close image %d: %w", index, err)
		}
	}

	return ast.WalkSkipChildren, nil
}
