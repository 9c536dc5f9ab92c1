// Package goldmark implements markup.Engine on top of the goldmark
// Markdown library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdsync/pkg/markup"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Priorities of the node renderers. Lower values win.
const (
	priorityHTML      = 1000
	priorityExtension = 500
	priorityImage     = 100
)

var _ markup.Engine = (*Parser)(nil)

// Parser tokenizes and renders Markdown with goldmark. A Parser is safe
// for concurrent use; the Documents it returns are not.
type Parser struct {
	flavor     string
	unsafe     bool
	detectLang bool
	headingIDs bool
	md         goldmark.Markdown
}

// Option configures a Parser.
type Option func(*Parser)

// WithUnsafe renders raw HTML and dangerous URLs verbatim.
func WithUnsafe(unsafe bool) Option {
	return func(p *Parser) { p.unsafe = unsafe }
}

// WithLanguageDetection guesses a language for code blocks without an
// info string.
func WithLanguageDetection(enabled bool) Option {
	return func(p *Parser) { p.detectLang = enabled }
}

// WithHeadingIDs adds generated id attributes to headings.
func WithHeadingIDs(enabled bool) Option {
	return func(p *Parser) { p.headingIDs = enabled }
}

// New creates a parser for the given flavor. Unknown flavors fall back to
// CommonMark.
func New(flavor string, opts ...Option) *Parser {
	p := &Parser{
		flavor:     flavorOrDefault(flavor),
		headingIDs: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.md = p.newGoldmarkInstance()
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse tokenizes source into top-level blocks. A panic inside goldmark
// is reported as markup.ErrUnavailable.
func (p *Parser) Parse(ctx context.Context, source []byte) (_ markup.Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: goldmark panic: %v", markup.ErrUnavailable, r)
		}
	}()

	content := copyContent(source)
	root := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	ext := newExtractor(content, p.detectLang)
	toks, nodes := ext.extract(root)

	return &Document{
		parser: p,
		source: content,
		tokens: toks,
		nodes:  nodes,
	}, nil
}

// flavorOrDefault returns the flavor if valid, otherwise CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func (p *Parser) newGoldmarkInstance() goldmark.Markdown {
	var opts []goldmark.Option

	if p.flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	if p.headingIDs {
		opts = append(opts, goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	}
	opts = append(opts, goldmark.WithRendererOptions(p.htmlOptions()...))

	return goldmark.New(opts...)
}

func (p *Parser) htmlOptions() []renderer.Option {
	if p.unsafe {
		return []renderer.Option{html.WithUnsafe()}
	}
	return nil
}

// newRenderer builds a renderer whose image output goes through images.
// Documents get their own renderer so wrapping state is never shared.
//
//nolint:ireturn // goldmark renderer.Renderer is an external interface type
func (p *Parser) newRenderer(images *imageRenderer) renderer.Renderer {
	var htmlOpts []html.Option
	if p.unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	nodeRenderers := []util.PrioritizedValue{
		util.Prioritized(html.NewRenderer(htmlOpts...), priorityHTML),
		util.Prioritized(images, priorityImage),
	}
	if p.flavor == FlavorGFM {
		nodeRenderers = append(nodeRenderers,
			util.Prioritized(extension.NewTableHTMLRenderer(), priorityExtension),
			util.Prioritized(extension.NewStrikethroughHTMLRenderer(), priorityExtension),
			util.Prioritized(extension.NewTaskCheckBoxHTMLRenderer(), priorityExtension),
		)
	}

	return renderer.NewRenderer(renderer.WithNodeRenderers(nodeRenderers...))
}

// copyContent copies source so later edits by the caller cannot change
// what the document renders.
func copyContent(content []byte) []byte {
	if content == nil {
		return []byte{}
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
