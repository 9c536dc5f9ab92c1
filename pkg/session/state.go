package session

// State is the synchronization state of a Session.
type State int

// Session states.
const (
	// StateDetached is the state before Attach.
	StateDetached State = iota
	// StateIdle means the preview matches the text; pointer events are
	// honored.
	StateIdle
	// StateEditing means a render is scheduled.
	StateEditing
	// StateRendering means a render pass is running.
	StateRendering
	// StateReadOnly means the markup dependency failed.
	StateReadOnly
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateRendering:
		return "rendering"
	case StateReadOnly:
		return "read-only"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
