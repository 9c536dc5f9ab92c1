// Package resolve maps block tokens back to byte spans of their source.
//
// Resolution is a single forward pass: a cursor starts at zero and only
// moves forward, so textually identical blocks resolve to successive
// occurrences rather than all to the first one. Every token receives
// exactly one span; tokens that cannot be placed get mdast.Sentinel and
// the cursor skips ahead a fixed distance so the pass always terminates
// in time proportional to the document length.
package resolve

import "github.com/yaklabco/mdsync/pkg/mdast"

// Defaults for Options.
const (
	DefaultPrefixLength = 50
	DefaultSkipDistance = 50
)

// Options configures a Resolver.
type Options struct {
	// PrefixLength is the number of leading bytes used by partial matching.
	PrefixLength int

	// SkipDistance is how far the cursor advances after a failed match.
	SkipDistance int

	// Strategies are tried in order for each token. Nil selects
	// DefaultStrategies(PrefixLength).
	Strategies []Strategy
}

// DefaultOptions returns the standard resolver configuration.
func DefaultOptions() Options {
	return Options{
		PrefixLength: DefaultPrefixLength,
		SkipDistance: DefaultSkipDistance,
	}
}

// DefaultStrategies returns exact, block-prefix and partial matching, in
// that priority.
func DefaultStrategies(prefixLength int) []Strategy {
	return []Strategy{
		Exact{},
		BlockPrefix{},
		PartialPrefix{Length: prefixLength},
	}
}

// Resolver assigns spans to tokens. It is stateless between calls and
// safe for concurrent use.
type Resolver struct {
	opts Options
}

// New creates a Resolver, filling unset options with defaults.
func New(opts Options) *Resolver {
	if opts.PrefixLength <= 0 {
		opts.PrefixLength = DefaultPrefixLength
	}
	if opts.SkipDistance <= 0 {
		opts.SkipDistance = DefaultSkipDistance
	}
	if opts.Strategies == nil {
		opts.Strategies = DefaultStrategies(opts.PrefixLength)
	}
	return &Resolver{opts: opts}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve returns one Block per token, in token order. It never fails.
func (r *Resolver) Resolve(src string, tokens []mdast.Token) []mdast.Block {
	blocks := make([]mdast.Block, len(tokens))
	cursor := 0

	for i, tok := range tokens {
		block := mdast.Block{Index: i, Token: tok}

		if tok.Raw == "" {
			// Nothing to search for; leave the cursor where it is.
			block.Span = mdast.Sentinel
			block.Images = sentinelImages(tok)
			blocks[i] = block
			continue
		}

		span, strategy, ok := r.match(src, tok.Raw, cursor)
		if ok {
			block.Span = span
			block.Strategy = strategy
			cursor = span.End
			block.Images = r.resolveImages(src, span, tok)
		} else {
			block.Span = mdast.Sentinel
			block.Images = sentinelImages(tok)
			cursor = min(cursor+r.opts.SkipDistance, len(src))
		}

		blocks[i] = block
	}

	return blocks
}

func (r *Resolver) match(src, raw string, cursor int) (mdast.Span, string, bool) {
	for _, strategy := range r.opts.Strategies {
		span, ok := strategy.Find(src, raw, cursor)
		if !ok {
			continue
		}
		// Guard against strategies that break the forward-only contract.
		if span.Start < cursor || !span.InBounds(len(src)) || span.End <= span.Start {
			continue
		}
		return span, strategy.Name(), true
	}
	return mdast.Sentinel, "", false
}

func sentinelImages(tok mdast.Token) []mdast.InlineSpan {
	if len(tok.Images) == 0 {
		return nil
	}
	images := make([]mdast.InlineSpan, len(tok.Images))
	for i := range images {
		images[i] = mdast.InlineSpan{Index: i, Span: mdast.Sentinel}
	}
	return images
}
