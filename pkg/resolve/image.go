package resolve

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Strategy names for inline images.
const (
	StrategyImageExact   = "image-exact"
	StrategyImageEncoded = "image-encoded"
	StrategyImagePartial = "image-partial"
)

// resolveImages places each image of a resolved block. Images are searched
// from the block start with a cursor local to the block, since their text
// was already consumed by the block-level pass.
func (r *Resolver) resolveImages(src string, block mdast.Span, tok mdast.Token) []mdast.InlineSpan {
	if len(tok.Images) == 0 {
		return nil
	}

	scope := src[:block.End]
	cursor := block.Start
	images := make([]mdast.InlineSpan, len(tok.Images))

	for i, img := range tok.Images {
		images[i] = mdast.InlineSpan{Index: i, Span: mdast.Sentinel}

		span, strategy, ok := findImage(scope, img, cursor)
		if !ok || !span.Within(block) {
			continue
		}
		images[i].Span = span
		images[i].Strategy = strategy
		cursor = span.End
	}

	return images
}

func findImage(scope string, img mdast.ImageToken, from int) (mdast.Span, string, bool) {
	if span, ok := indexFrom(scope, img.Raw, from); ok {
		return span, StrategyImageExact, true
	}

	for _, dest := range destinationVariants(img.Destination) {
		if span, ok := indexFrom(scope, imageRaw(img.Alt, dest, img.Title), from); ok {
			return span, StrategyImageEncoded, true
		}
	}

	// Partial: the opening of the image up to its destination, extended
	// to the closing parenthesis.
	prefixes := []string{"![" + img.Alt + "](" + img.Destination}
	for _, dest := range destinationVariants(img.Destination) {
		prefixes = append(prefixes, "!["+img.Alt+"]("+dest)
	}
	prefixes = append(prefixes, "!["+img.Alt+"](")

	for _, prefix := range prefixes {
		span, ok := indexFrom(scope, prefix, from)
		if !ok {
			continue
		}
		if closing := strings.IndexByte(scope[span.End:], ')'); closing >= 0 {
			span.End += closing + 1
		}
		return span, StrategyImagePartial, true
	}

	return mdast.Sentinel, "", false
}

// destinationVariants returns percent-encoded and decoded forms of dest
// that differ from it.
func destinationVariants(dest string) []string {
	if dest == "" {
		return nil
	}

	var variants []string
	if encoded := string(util.URLEscape([]byte(dest), false)); encoded != dest {
		variants = append(variants, encoded)
	}
	if decoded, err := url.PathUnescape(dest); err == nil && decoded != dest {
		variants = append(variants, decoded)
	}
	return variants
}

// ImageRaw renders an image in canonical inline form.
func ImageRaw(alt, dest, title string) string {
	return imageRaw(alt, dest, title)
}

func imageRaw(alt, dest, title string) string {
	var b strings.Builder
	b.WriteString("![")
	b.WriteString(alt)
	b.WriteString("](")
	b.WriteString(dest)
	if title != "" {
		b.WriteString(` "`)
		b.WriteString(title)
		b.WriteByte('"')
	}
	b.WriteByte(')')
	return b.String()
}
