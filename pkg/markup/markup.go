// Package markup defines the contract between the synchronization pipeline
// and the Markdown engine that tokenizes and renders source text.
package markup

//go:generate mockgen -source=markup.go -destination=mocks/mock_markup.go -package=mocks

import (
	"context"
	"errors"
	"io"

	"github.com/yaklabco/mdsync/pkg/mdast"
)

// ErrUnavailable is returned by engines that cannot tokenize or render.
var ErrUnavailable = errors.New("markup engine unavailable")

// Engine tokenizes Markdown source into top-level block tokens.
type Engine interface {
	Parse(ctx context.Context, source []byte) (Document, error)
}

// Document is the result of one Parse call.
type Document interface {
	// Tokens returns the block tokens in document order.
	Tokens() []mdast.Token

	// RenderBlock writes the HTML of token index to w. images is called
	// around every image rendered inside the block, in the order of
	// Token.Images. A nil images disables wrapping.
	RenderBlock(w io.Writer, index int, images ImageWrapper) error
}

// ImageWrapper decorates rendered images.
type ImageWrapper interface {
	OpenImage(w io.Writer, image int) error
	CloseImage(w io.Writer, image int) error
}
