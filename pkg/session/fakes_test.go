package session_test

import (
	"sort"
	"sync"
	"time"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/session"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

//nolint:ireturn // implements session.Clock
func (c *fakeClock) AfterFunc(d time.Duration, fn func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired && timer.at <= c.now {
			timer.fired = true
			due = append(due, timer)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, timer := range due {
		timer.fn()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			n++
		}
	}
	return n
}

type fakeEditor struct {
	mu       sync.Mutex
	change   func(string)
	pointer  func(int) bool
	selected []mdast.Span
	scrolled []float64
	marked   []mdast.Span
	unmarked int
}

func (e *fakeEditor) OnChange(handler func(string)) { e.change = handler }
func (e *fakeEditor) OnPointer(handler func(int) bool) { e.pointer = handler }

func (e *fakeEditor) Select(span mdast.Span) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = append(e.selected, span)
}

func (e *fakeEditor) ScrollTo(fraction float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolled = append(e.scrolled, fraction)
}

func (e *fakeEditor) Highlight(span mdast.Span) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.marked = append(e.marked, span)
}

func (e *fakeEditor) ClearHighlight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unmarked++
}

type fakePreview struct {
	mu        sync.Mutex
	pointer   func(string) bool
	installed []*annotate.Tree
	readOnly  []string
	marked    []string
	scrolled  []string
	unmarked  []string
}

func (p *fakePreview) OnPointer(handler func(string) bool) { p.pointer = handler }

func (p *fakePreview) Install(tree *annotate.Tree) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.installed = append(p.installed, tree)
}

func (p *fakePreview) ShowReadOnly(text string, _ error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readOnly = append(p.readOnly, text)
}

func (p *fakePreview) Highlight(nodeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marked = append(p.marked, nodeID)
}

func (p *fakePreview) ScrollIntoView(nodeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolled = append(p.scrolled, nodeID)
}

func (p *fakePreview) ClearHighlight(nodeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unmarked = append(p.unmarked, nodeID)
}

func (p *fakePreview) installs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.installed)
}
