// Package session keeps a source text and its annotated preview in sync.
//
// A Session is created when a host enters edit mode and discarded with
// Close. Text changes are debounced into full render passes (tokenize,
// resolve, annotate); pointer events from either surface are only honored
// while the preview matches the text.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/edit"
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/navigate"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

// Default timings.
const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultHighlight = 2 * time.Second
)

var errNilSurface = errors.New("attach: nil surface")

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithDebounce sets the quiet period before a render pass.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithHighlight sets how long navigation highlights stay visible.
func WithHighlight(d time.Duration) Option {
	return func(s *Session) { s.highlight = d }
}

// WithResolver sets the span resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

// WithAnnotator sets the render annotator.
func WithAnnotator(a *annotate.Annotator) Option {
	return func(s *Session) { s.annotator = a }
}

// Session owns one source document and drives its preview.
type Session struct {
	engine    markup.Engine
	resolver  *resolve.Resolver
	annotator *annotate.Annotator
	clock     Clock
	logger    *log.Logger
	debounce  time.Duration
	highlight time.Duration

	mu       sync.Mutex
	ctx      context.Context //nolint:containedctx // bounds the session lifetime
	state    State
	edit     EditSurface
	preview  PreviewSurface
	text     string
	seq      uint64
	pending  Timer
	passDone chan struct{}
	tree     *annotate.Tree
	stats    resolve.Stats
	cause    error

	editMark    mark
	previewMark mark
}

// mark is an active highlight and the timer that clears it.
type mark struct {
	gen   uint64
	timer Timer
	node  string
	on    bool
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	State State          `json:"state"`
	Text  string         `json:"text"`
	Stats resolve.Stats  `json:"stats"`
	Tree  *annotate.Tree `json:"-"`
	Err   error          `json:"-"`
}

// New creates a detached session rendering with engine.
func New(engine markup.Engine, opts ...Option) *Session {
	s := &Session{
		engine:    engine,
		clock:     SystemClock{},
		debounce:  DefaultDebounce,
		highlight: DefaultHighlight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = resolve.New(resolve.DefaultOptions())
	}
	if s.annotator == nil {
		s.annotator = annotate.New(annotate.Options{})
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s
}

// Attach connects the surfaces and renders text immediately. ctx bounds
// the session: once it is done the session closes at its next pass. An
// error wrapping ErrDependencyUnavailable leaves the session read-only
// with the text shown unsynchronized.
func (s *Session) Attach(ctx context.Context, editor EditSurface, preview PreviewSurface, text string) error {
	if editor == nil || preview == nil {
		return errNilSurface
	}

	s.mu.Lock()
	switch s.state {
	case StateDetached:
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	default:
		s.mu.Unlock()
		return errors.New("attach: session already attached")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.edit = editor
	s.preview = preview
	s.text = text
	s.seq++
	s.state = StateEditing
	seq := s.seq

	editor.OnChange(func(text string) {
		if err := s.OnTextChanged(text); err != nil {
			s.logger.Debug("text change ignored", logging.FieldError, err)
		}
	})
	editor.OnPointer(s.OnEditorPointerEvent)
	preview.OnPointer(s.OnPreviewPointerEvent)
	s.mu.Unlock()

	return s.runPass(seq)
}

// OnTextChanged replaces the text and schedules a render after the
// debounce period, superseding any pending one.
func (s *Session) OnTextChanged(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	s.setTextLocked(text)
	return nil
}

// ApplyEdits applies range edits to the current text. The result replaces
// the text wholesale, exactly like OnTextChanged.
func (s *Session) ApplyEdits(edits []edit.TextEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return err
	}
	text, err := edit.Apply(s.text, edits)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}
	s.setTextLocked(text)
	return nil
}

// Flush runs a pending render now and waits for any running one.
func (s *Session) Flush() error {
	for {
		s.mu.Lock()
		switch s.state {
		case StateIdle:
			s.mu.Unlock()
			return nil
		case StateRendering:
			done := s.passDone
			s.mu.Unlock()
			if done != nil {
				<-done
			}
		case StateEditing:
			if s.pending != nil {
				s.pending.Stop()
				s.pending = nil
			}
			seq := s.seq
			s.mu.Unlock()
			if err := s.runPass(seq); err != nil {
				return err
			}
		default:
			err := s.stateErrLocked()
			s.mu.Unlock()
			return err
		}
	}
}

// OnEditorPointerEvent highlights the preview block containing offset.
// It reports whether the event was honored.
func (s *Session) OnEditorPointerEvent(offset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		s.logger.Debug("editor pointer dropped",
			logging.FieldOffset, offset, logging.FieldState, s.state, logging.FieldError, ErrStaleInteraction)
		return false
	}

	node, ok := navigate.Forward(s.tree, offset)
	if !ok {
		return false
	}

	s.markPreviewLocked(node.ID)
	s.logger.Debug("editor pointer", logging.FieldOffset, offset, logging.FieldNode, node.ID)
	return true
}

// OnPreviewPointerEvent selects the source of the annotated node nodeID,
// or of its nearest navigable ancestor. It reports whether the event was
// honored.
func (s *Session) OnPreviewPointerEvent(nodeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		s.logger.Debug("preview pointer dropped",
			logging.FieldNode, nodeID, logging.FieldState, s.state, logging.FieldError, ErrStaleInteraction)
		return false
	}

	node, ok := s.tree.Lookup(nodeID)
	if !ok {
		return false
	}
	target, span, ok := navigate.Reverse(node)
	if !ok {
		s.logger.Debug("preview pointer ignored", logging.FieldNode, nodeID, logging.FieldError, ErrUnresolvedSpan)
		return false
	}

	s.edit.Select(span)
	s.edit.ScrollTo(navigate.ScrollFraction(span, len(s.text)))
	s.markEditLocked(span)
	s.logger.Debug("preview pointer", logging.FieldNode, target.ID, logging.FieldSpan, span)
	return true
}

// Close stops all timers. The session cannot be reused.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	return nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the current source text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Tree returns the installed annotated tree, nil before the first render
// or after a failure.
func (s *Session) Tree() *annotate.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Stats returns the resolution statistics of the installed tree.
func (s *Session) Stats() resolve.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Snapshot returns the state, text and tree together.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Text: s.text, Stats: s.stats, Tree: s.tree, Err: s.cause}
}

func (s *Session) editableLocked() error {
	switch s.state {
	case StateIdle, StateEditing, StateRendering:
		return nil
	default:
		return s.stateErrLocked()
	}
}

func (s *Session) stateErrLocked() error {
	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateDetached:
		return ErrNotAttached
	case StateReadOnly:
		return s.cause
	default:
		return nil
	}
}

func (s *Session) setTextLocked(text string) {
	s.text = text
	s.seq++
	seq := s.seq

	if s.pending != nil {
		s.pending.Stop()
	}
	// A running pass notices the new sequence and discards its result.
	s.state = StateEditing
	s.pending = s.clock.AfterFunc(s.debounce, func() {
		_ = s.runPass(seq)
	})
}

// runPass renders the text of sequence seq if it is still the latest
// scheduled one. Passes never overlap.
func (s *Session) runPass(seq uint64) error {
	s.mu.Lock()
	for s.passDone != nil {
		done := s.passDone
		s.mu.Unlock()
		<-done
		s.mu.Lock()
	}
	if s.seq != seq || s.state != StateEditing {
		s.mu.Unlock()
		return nil
	}

	s.state = StateRendering
	s.pending = nil
	done := make(chan struct{})
	s.passDone = done
	ctx, text := s.ctx, s.text
	s.mu.Unlock()

	start := time.Now()
	tree, blocks, err := s.build(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.passDone = nil
		close(done)
	}()

	switch {
	case s.state == StateClosed:
		return ErrClosed
	case ctx.Err() != nil:
		s.closeLocked()
		return fmt.Errorf("render: %w", ctx.Err())
	case err != nil:
		s.state = StateReadOnly
		s.tree = nil
		s.stats = resolve.Stats{}
		s.cause = fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
		s.logger.Error("render failed, synchronization disabled", logging.FieldError, err)
		s.preview.ShowReadOnly(s.text, s.cause)
		return s.cause
	case s.seq != seq:
		s.logger.Debug("render superseded", logging.FieldState, s.state)
		return nil
	}

	s.tree = tree
	s.stats = resolve.Summarize(blocks)
	s.state = StateIdle
	// Node IDs of the previous tree are gone with it.
	if s.previewMark.timer != nil {
		s.previewMark.timer.Stop()
	}
	s.previewMark = mark{gen: s.previewMark.gen}

	for _, block := range blocks {
		if block.Span.IsSentinel() {
			s.logger.Debug("block unresolved",
				logging.FieldBlock, block.Index, logging.FieldKind, block.Token.Kind, logging.FieldError, ErrUnresolvedSpan)
		}
	}
	s.logger.Debug("render installed",
		logging.FieldBlocks, s.stats.Blocks,
		logging.FieldUnresolved, s.stats.Unresolved,
		logging.FieldDuration, time.Since(start))

	s.preview.Install(tree)
	return nil
}

// build runs tokenize, resolve and annotate on text.
func (s *Session) build(ctx context.Context, text string) (_ *annotate.Tree, _ []mdast.Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", markup.ErrUnavailable, r)
		}
	}()

	doc, err := s.engine.Parse(ctx, []byte(text))
	if err != nil {
		return nil, nil, fmt.Errorf("tokenize: %w", err)
	}

	blocks := s.resolver.Resolve(text, doc.Tokens())
	tree, err := s.annotator.Annotate(doc, blocks)
	if err != nil {
		return nil, nil, fmt.Errorf("annotate: %w", err)
	}
	return tree, blocks, nil
}

func (s *Session) markPreviewLocked(nodeID string) {
	prev := s.previewMark
	if prev.timer != nil {
		prev.timer.Stop()
	}
	if prev.on && prev.node != nodeID {
		s.preview.ClearHighlight(prev.node)
	}

	gen := prev.gen + 1
	s.preview.Highlight(nodeID)
	s.preview.ScrollIntoView(nodeID)
	s.previewMark = mark{gen: gen, node: nodeID, on: true}
	s.previewMark.timer = s.clock.AfterFunc(s.highlight, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.previewMark.gen != gen || !s.previewMark.on || s.state == StateClosed {
			return
		}
		s.preview.ClearHighlight(nodeID)
		s.previewMark.on = false
	})
}

func (s *Session) markEditLocked(span mdast.Span) {
	if s.editMark.timer != nil {
		s.editMark.timer.Stop()
	}

	gen := s.editMark.gen + 1
	s.edit.Highlight(span)
	s.editMark = mark{gen: gen, on: true}
	s.editMark.timer = s.clock.AfterFunc(s.highlight, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.editMark.gen != gen || !s.editMark.on || s.state == StateClosed {
			return
		}
		s.edit.ClearHighlight()
		s.editMark.on = false
	})
}

func (s *Session) closeLocked() {
	if s.state == StateClosed {
		return
	}
	for _, t := range []Timer{s.pending, s.editMark.timer, s.previewMark.timer} {
		if t != nil {
			t.Stop()
		}
	}
	s.pending = nil
	s.state = StateClosed
	s.tree = nil
}
