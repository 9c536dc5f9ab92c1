package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/session"
)

// ErrSessionNotFound is returned for unknown or deleted session IDs.
var ErrSessionNotFound = errors.New("session not found")

// entry is one live session and its surfaces.
type entry struct {
	id      string
	path    string
	created time.Time
	sess    *session.Session
	surface *recorder
	cancel  context.CancelFunc
}

// manager owns the sessions of a server.
type manager struct {
	newSession func(id string) *session.Session
	logger     *log.Logger

	mu       sync.Mutex
	base     context.Context //nolint:containedctx // parent of every session context
	sessions map[string]*entry
}

func newManager(base context.Context, logger *log.Logger, newSession func(id string) *session.Session) *manager {
	return &manager{
		newSession: newSession,
		logger:     logger,
		base:       base,
		sessions:   make(map[string]*entry),
	}
}

// create attaches a new session to text. A session whose first render
// failed is kept read-only and returned together with the error.
func (m *manager) create(path, text string) (*entry, error) {
	id := uuid.NewString()

	m.mu.Lock()
	ctx, cancel := context.WithCancel(m.base)
	ent := &entry{
		id:      id,
		path:    path,
		created: time.Now(),
		sess:    m.newSession(id),
		surface: newRecorder(),
		cancel:  cancel,
	}
	m.sessions[id] = ent
	m.mu.Unlock()

	err := ent.sess.Attach(ctx, editorSurface{ent.surface}, previewSurface{ent.surface}, text)
	if err != nil && !errors.Is(err, session.ErrDependencyUnavailable) {
		m.remove(id)
		return nil, fmt.Errorf("attach session: %w", err)
	}
	return ent, err
}

func (m *manager) get(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return ent, nil
}

// remove closes and forgets a session.
func (m *manager) remove(id string) error {
	m.mu.Lock()
	ent, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	ent.cancel()
	return ent.sess.Close()
}

func (m *manager) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// closeAll closes every session.
func (m *manager) closeAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		if err := m.remove(id); err != nil {
			m.logger.Debug("close session", logging.FieldSession, id, logging.FieldError, err)
		}
	}
}
