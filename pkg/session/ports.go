package session

import (
	"time"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/mdast"
)

// EditSurface is the host's raw-text editor.
//
// Surfaces are called with the session lock held and must not call back
// into the Session synchronously. Handlers registered through OnChange and
// OnPointer are meant to be invoked from the host's own event loop.
type EditSurface interface {
	// OnChange registers the handler for text changes.
	OnChange(handler func(text string))
	// OnPointer registers the handler for cursor placement.
	OnPointer(handler func(offset int) bool)

	Select(span mdast.Span)
	// ScrollTo scrolls to a fraction of the document height, 0 to 1.
	ScrollTo(fraction float64)
	Highlight(span mdast.Span)
	ClearHighlight()
}

// PreviewSurface is the host's rendered view.
type PreviewSurface interface {
	// OnPointer registers the handler for clicks on annotated nodes.
	OnPointer(handler func(nodeID string) bool)

	// Install replaces the rendered content.
	Install(tree *annotate.Tree)
	// ShowReadOnly shows text without synchronization after a fatal error.
	ShowReadOnly(text string, cause error)
	Highlight(nodeID string)
	ScrollIntoView(nodeID string)
	ClearHighlight(nodeID string)
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or is running.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules callbacks with time.AfterFunc.
type SystemClock struct{}

// AfterFunc runs f in its own goroutine after d.
//
//nolint:ireturn // Clock is an interface by design
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
