package server

import (
	"sync"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/mdast"
)

// Event targets.
const (
	TargetEditor  = "editor"
	TargetPreview = "preview"
)

// Event types.
const (
	EventInstall        = "install"
	EventReadOnly       = "read_only"
	EventSelect         = "select"
	EventScroll         = "scroll"
	EventHighlight      = "highlight"
	EventClearHighlight = "clear_highlight"
	EventScrollIntoView = "scroll_into_view"
)

// Event is one side effect a session applied to a surface. Clients replay
// events on their own editor and preview.
type Event struct {
	Target   string      `json:"target"`
	Type     string      `json:"type"`
	Span     *mdast.Span `json:"span,omitempty"`
	Node     string      `json:"node,omitempty"`
	Fraction *float64    `json:"fraction,omitempty"`
	HTML     string      `json:"html,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// recorder queues surface events until the next response drains them.
// It implements both session surfaces.
type recorder struct {
	mu     sync.Mutex
	events []Event

	onEditPointer  func(offset int) bool
	onPreviewClick func(nodeID string) bool
}

func newRecorder() *recorder {
	return &recorder{events: make([]Event, 0)}
}

func (r *recorder) push(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// drain returns and clears the queued events.
func (r *recorder) drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.events
	r.events = make([]Event, 0)
	return out
}

// pointerHandlers returns the handlers the session registered.
func (r *recorder) pointerHandlers() (func(int) bool, func(string) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onEditPointer, r.onPreviewClick
}

func (r *recorder) editorPointer(offset int) bool {
	onPointer, _ := r.pointerHandlers()
	return onPointer != nil && onPointer(offset)
}

func (r *recorder) previewPointer(nodeID string) bool {
	_, onClick := r.pointerHandlers()
	return onClick != nil && onClick(nodeID)
}

// editorSurface and previewSurface split the recorder into the two
// surface interfaces, whose OnPointer signatures differ.
type (
	editorSurface  struct{ *recorder }
	previewSurface struct{ *recorder }
)

// OnChange is a no-op: text changes arrive through the API, where their
// errors can be reported.
func (e editorSurface) OnChange(func(text string)) {}

func (e editorSurface) OnPointer(handler func(offset int) bool) {
	e.mu.Lock()
	e.onEditPointer = handler
	e.mu.Unlock()
}

func (e editorSurface) Select(span mdast.Span) {
	e.push(Event{Target: TargetEditor, Type: EventSelect, Span: &span})
}

func (e editorSurface) ScrollTo(fraction float64) {
	e.push(Event{Target: TargetEditor, Type: EventScroll, Fraction: &fraction})
}

func (e editorSurface) Highlight(span mdast.Span) {
	e.push(Event{Target: TargetEditor, Type: EventHighlight, Span: &span})
}

func (e editorSurface) ClearHighlight() {
	e.push(Event{Target: TargetEditor, Type: EventClearHighlight})
}

func (p previewSurface) OnPointer(handler func(nodeID string) bool) {
	p.mu.Lock()
	p.onPreviewClick = handler
	p.mu.Unlock()
}

func (p previewSurface) Install(tree *annotate.Tree) {
	p.push(Event{Target: TargetPreview, Type: EventInstall, HTML: tree.HTML})
}

func (p previewSurface) ShowReadOnly(text string, cause error) {
	ev := Event{Target: TargetPreview, Type: EventReadOnly, HTML: escapePre(text)}
	if cause != nil {
		ev.Error = cause.Error()
	}
	p.push(ev)
}

func (p previewSurface) Highlight(nodeID string) {
	p.push(Event{Target: TargetPreview, Type: EventHighlight, Node: nodeID})
}

func (p previewSurface) ScrollIntoView(nodeID string) {
	p.push(Event{Target: TargetPreview, Type: EventScrollIntoView, Node: nodeID})
}

func (p previewSurface) ClearHighlight(nodeID string) {
	p.push(Event{Target: TargetPreview, Type: EventClearHighlight, Node: nodeID})
}
