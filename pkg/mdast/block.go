package mdast

// Block is a token paired with its resolved source span.
type Block struct {
	Index int
	Token Token
	Span  Span

	// Strategy names the matcher that located the block. Empty for
	// sentinel spans.
	Strategy string

	Images []InlineSpan
}

// Resolved reports whether the block has a navigable span.
func (b Block) Resolved() bool {
	return b.Span.Valid()
}

// InlineSpan is the resolved location of an inline element (an image)
// inside its block.
type InlineSpan struct {
	Index    int
	Span     Span
	Strategy string
}
