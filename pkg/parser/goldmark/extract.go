package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdsync/pkg/langdetect"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// extractor turns a goldmark AST into top-level block tokens. Each token's
// Raw is the full source lines the block occupies, which is what goldmark
// does not keep for container markers, fences, or setext underlines.
type extractor struct {
	source     []byte
	doc        *mdast.Document
	detectLang bool

	lastLine  int
	listGroup int
}

// blockNode is the goldmark node behind a token.
type blockNode struct {
	node ast.Node
	// item marks list items, whose children are rendered without the
	// surrounding <li>.
	item bool
}

func newExtractor(source []byte, detectLang bool) *extractor {
	return &extractor{
		source:     source,
		doc:        mdast.NewDocument("", string(source)),
		detectLang: detectLang,
	}
}

func (e *extractor) extract(root ast.Node) ([]mdast.Token, []blockNode) {
	var (
		toks  []mdast.Token
		nodes []blockNode
	)

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		list, isList := child.(*ast.List)
		if !isList {
			toks = append(toks, e.token(child, nil))
			nodes = append(nodes, blockNode{node: child})
			continue
		}

		e.listGroup++
		index := 0
		for item := list.FirstChild(); item != nil; item = item.NextSibling() {
			info := &mdast.ListInfo{
				Group:   e.listGroup,
				Ordered: list.IsOrdered(),
				Index:   index,
			}
			if info.Ordered {
				info.Start = list.Start
			}
			toks = append(toks, e.token(item, info))
			nodes = append(nodes, blockNode{node: item, item: true})
			index++
		}
	}

	return toks, nodes
}

func (e *extractor) token(node ast.Node, list *mdast.ListInfo) mdast.Token {
	tok := mdast.Token{
		Kind:   kindOf(node, list != nil),
		List:   list,
		Images: e.images(node),
	}

	switch typed := node.(type) {
	case *ast.Heading:
		tok.Level = typed.Level
	case *ast.FencedCodeBlock:
		tok.Lang = string(typed.Language(e.source))
		if tok.Lang == "" {
			tok.DetectedLang = e.detect(typed)
		}
	case *ast.CodeBlock:
		tok.DetectedLang = e.detect(typed)
	}

	if first, last, ok := e.lineRange(node); ok {
		if span, ok := e.doc.LineSpan(first, last); ok {
			tok.Raw = e.doc.Slice(span)
		}
		e.lastLine = last
	}

	return tok
}

func kindOf(node ast.Node, listItem bool) mdast.BlockKind {
	if listItem {
		return mdast.KindListItem
	}
	switch node.(type) {
	case *ast.Heading:
		return mdast.KindHeading
	case *ast.Paragraph, *ast.TextBlock:
		return mdast.KindParagraph
	case *ast.Blockquote:
		return mdast.KindBlockquote
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return mdast.KindCodeBlock
	case *ast.ThematicBreak:
		return mdast.KindThematicBreak
	case *ast.HTMLBlock:
		return mdast.KindHTML
	case *east.Table:
		return mdast.KindTable
	default:
		return mdast.KindOther
	}
}

// lineRange returns the 1-based inclusive lines covered by node. Lines
// before the previous token's last line are never claimed.
func (e *extractor) lineRange(node ast.Node) (int, int, bool) {
	rng := lineSet{}

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			e.addSegments(&rng, n.Lines())
		}

		switch typed := n.(type) {
		case *ast.Text:
			e.addSegment(&rng, typed.Segment)
		case *ast.RawHTML:
			e.addSegments(&rng, typed.Segments)
		case *ast.FencedCodeBlock:
			e.addFence(&rng, typed)
		case *ast.HTMLBlock:
			if typed.HasClosure() {
				e.addSegment(&rng, typed.ClosureLine)
			}
		}
		return ast.WalkContinue, nil
	})

	if !rng.ok {
		// Blocks without segments (thematic breaks, empty fences) sit on
		// the next non-blank line.
		line, found := e.nextNonBlank(e.lastLine + 1)
		if !found {
			return 0, 0, false
		}
		rng.add(line)
		if _, isFence := node.(*ast.FencedCodeBlock); isFence && isFenceLine(e.doc.LineContent(line+1)) {
			rng.add(line + 1)
		}
	}

	switch typed := node.(type) {
	case *ast.Heading:
		e.extendSetext(&rng, typed)
	case *east.Table:
		if isDelimiterRow(e.doc.LineContent(rng.last + 1)) {
			rng.add(rng.last + 1)
		}
	}

	first := max(rng.first, e.lastLine+1)
	if first > rng.last {
		return 0, 0, false
	}
	return first, rng.last, true
}

// lineSet tracks the smallest and largest line seen.
type lineSet struct {
	first, last int
	ok          bool
}

func (r *lineSet) add(line int) {
	if line < 1 {
		return
	}
	if !r.ok || line < r.first {
		r.first = line
	}
	if !r.ok || line > r.last {
		r.last = line
	}
	r.ok = true
}

func (e *extractor) addSegment(rng *lineSet, seg text.Segment) {
	if seg.Start < 0 || seg.Start > len(e.source) {
		return
	}
	startLine, _ := e.doc.LineAt(seg.Start)
	rng.add(startLine)
	if seg.Stop > seg.Start {
		endLine, _ := e.doc.LineAt(min(seg.Stop, len(e.source)) - 1)
		rng.add(endLine)
	}
}

func (e *extractor) addSegments(rng *lineSet, segs *text.Segments) {
	if segs == nil {
		return
	}
	for i := range segs.Len() {
		e.addSegment(rng, segs.At(i))
	}
}

// addFence adds the opening and closing fence lines of a fenced code block.
func (e *extractor) addFence(rng *lineSet, code *ast.FencedCodeBlock) {
	opening := 0
	switch {
	case code.Info != nil:
		opening, _ = e.doc.LineAt(code.Info.Segment.Start)
	case code.Lines().Len() > 0:
		contentLine, _ := e.doc.LineAt(code.Lines().At(0).Start)
		opening = contentLine - 1
	}
	if opening < 1 {
		return
	}
	rng.add(opening)

	closing := opening + 1
	if n := code.Lines().Len(); n > 0 {
		seg := code.Lines().At(n - 1)
		lastContent, _ := e.doc.LineAt(max(seg.Start, seg.Stop-1))
		closing = lastContent + 1
	}
	if isFenceLine(e.doc.LineContent(closing)) {
		rng.add(closing)
	}
}

// extendSetext includes the underline of a setext heading.
func (e *extractor) extendSetext(rng *lineSet, heading *ast.Heading) {
	if !rng.ok {
		return
	}
	if strings.HasPrefix(strings.TrimLeft(e.doc.LineContent(rng.first), " \t>"), "#") {
		return
	}
	underline := strings.TrimSpace(strings.TrimLeft(e.doc.LineContent(rng.last+1), " \t>"))
	if underline == "" {
		return
	}
	marker := byte('=')
	if heading.Level == 2 {
		marker = '-'
	}
	if strings.Trim(underline, string(marker)) == "" {
		rng.add(rng.last + 1)
	}
}

func (e *extractor) nextNonBlank(from int) (int, bool) {
	for line := max(from, 1); line <= e.doc.LineCount(); line++ {
		if strings.TrimSpace(e.doc.LineContent(line)) != "" {
			return line, true
		}
	}
	return 0, false
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t>")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func isDelimiterRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "-") {
		return false
	}
	return strings.Trim(trimmed, "|-: \t") == ""
}

// images lists the images inside node in document order.
func (e *extractor) images(node ast.Node) []mdast.ImageToken {
	var out []mdast.ImageToken

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		alt := altText(img, e.source)
		dest := string(img.Destination)
		title := string(img.Title)
		out = append(out, mdast.ImageToken{
			Raw:         resolve.ImageRaw(alt, dest, title),
			Destination: dest,
			Alt:         alt,
			Title:       title,
		})
		return ast.WalkSkipChildren, nil
	})

	return out
}

// altText concatenates the plain text below an image.
func altText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Text:
			buf.Write(typed.Segment.Value(source))
		case *ast.String:
			buf.Write(typed.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func (e *extractor) detect(node ast.Node) string {
	if !e.detectLang {
		return ""
	}
	var buf bytes.Buffer
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(e.source))
	}
	return langdetect.Detect(buf.Bytes())
}
