package session

import "errors"

var (
	// ErrUnresolvedSpan marks a block or image that has no source span. It
	// only costs that element its navigation.
	ErrUnresolvedSpan = errors.New("unresolved span")

	// ErrDependencyUnavailable means the tokenizer or renderer failed and
	// the session is read-only.
	ErrDependencyUnavailable = errors.New("markup dependency unavailable")

	// ErrStaleInteraction marks a pointer event dropped because a render
	// was pending or running.
	ErrStaleInteraction = errors.New("interaction outside idle state")

	// ErrClosed is returned by a closed session.
	ErrClosed = errors.New("session closed")

	// ErrNotAttached is returned before Attach.
	ErrNotAttached = errors.New("session not attached")
)
