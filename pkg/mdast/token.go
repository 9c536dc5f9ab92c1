package mdast

// BlockKind classifies a top-level block token.
type BlockKind string

// Block kinds produced by tokenizers.
const (
	KindHeading       BlockKind = "heading"
	KindParagraph     BlockKind = "paragraph"
	KindListItem      BlockKind = "list_item"
	KindCodeBlock     BlockKind = "code"
	KindBlockquote    BlockKind = "blockquote"
	KindTable         BlockKind = "table"
	KindThematicBreak BlockKind = "hr"
	KindHTML          BlockKind = "html"
	KindOther         BlockKind = "other"
)

// Token is one block-level element emitted by a tokenizer, in document
// order. Raw is the block's literal source text as the tokenizer saw it.
type Token struct {
	Kind BlockKind
	Raw  string

	// Level is the heading level (1-6); zero for other kinds.
	Level int

	// Lang is the info-string language of a fenced code block.
	Lang string

	// DetectedLang is a guessed language for code blocks without an
	// info string. Empty when detection is disabled or inconclusive.
	DetectedLang string

	// List is set for list items.
	List *ListInfo

	// Images lists images found inside the block, in document order.
	Images []ImageToken
}

// ListInfo places a list item within its enclosing list.
type ListInfo struct {
	// Group numbers the enclosing list among all top-level lists.
	Group   int
	Ordered bool
	// Start is the first number of an ordered list.
	Start int
	// Index is the item's position inside the list, from 0.
	Index int
}

// ImageToken is an inline image inside a block token.
type ImageToken struct {
	// Raw is the image in canonical inline form: ![alt](dest "title").
	Raw         string
	Destination string
	Alt         string
	Title       string
}

// Language returns the code language to annotate, preferring the
// explicit info string.
func (t Token) Language() string {
	if t.Lang != "" {
		return t.Lang
	}
	return t.DetectedLang
}
