package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/edit"
	"github.com/yaklabco/mdsync/pkg/fsutil"
	"github.com/yaklabco/mdsync/pkg/resolve"
	"github.com/yaklabco/mdsync/pkg/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

var errBadRequest = errors.New("bad request")

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.AllowedOrigins))

	r.Get("/health", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Put("/text", s.handleReplaceText)
			r.Patch("/text", s.handleEditText)
			r.Post("/flush", s.handleFlush)
			r.Post("/editor-pointer", s.handleEditorPointer)
			r.Post("/preview-pointer", s.handlePreviewPointer)
		})
	})

	r.Get("/preview/*", s.handlePreview)

	return r
}

// Request bodies.
type (
	createRequest struct {
		Text *string `json:"text,omitempty"`
		Path string  `json:"path,omitempty"`
	}
	textRequest struct {
		Text string `json:"text"`
	}
	editsRequest struct {
		Edits []edit.TextEdit `json:"edits"`
	}
	editorPointerRequest struct {
		Offset int `json:"offset"`
	}
	previewPointerRequest struct {
		Node string `json:"node"`
	}
)

// sessionResponse describes a session after a request, with the surface
// events it produced.
type sessionResponse struct {
	ID      string        `json:"id"`
	Path    string        `json:"path,omitempty"`
	State   session.State `json:"state"`
	Stats   resolve.Stats `json:"stats"`
	Text    *string       `json:"text,omitempty"`
	HTML    string        `json:"html,omitempty"`
	Honored *bool         `json:"honored,omitempty"`
	Error   string        `json:"error,omitempty"`
	Events  []Event       `json:"events"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Sessions  int    `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Sessions:  s.sessions.len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var text string
	switch {
	case req.Text != nil && req.Path != "":
		s.writeError(w, r, fmt.Errorf("%w: text and path are exclusive", errBadRequest))
		return
	case req.Text != nil:
		text = *req.Text
	case req.Path != "":
		full, err := fsutil.Within(s.opts.Root, req.Path)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		content, _, err := fsutil.ReadFile(r.Context(), full)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		text = string(content)
	}

	ent, err := s.sessions.create(req.Path, text)
	if ent == nil {
		s.writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("session created",
		logging.FieldSession, ent.id, logging.FieldPath, req.Path, logging.FieldState, ent.sess.State())

	resp := describe(ent, true)
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(ent, true))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("session closed", logging.FieldSession, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceText(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := ent.sess.OnTextChanged(req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, describe(ent, false))
}

func (s *Server) handleEditText(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req editsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := ent.sess.ApplyEdits(req.Edits); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, describe(ent, true))
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := ent.sess.Flush(); err != nil && !errors.Is(err, session.ErrDependencyUnavailable) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(ent, false))
}

func (s *Server) handleEditorPointer(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req editorPointerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	honored := ent.surface.editorPointer(req.Offset)
	resp := describe(ent, false)
	resp.Honored = &honored
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreviewPointer(w http.ResponseWriter, r *http.Request) {
	ent, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req previewPointerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	honored := ent.surface.previewPointer(req.Node)
	resp := describe(ent, false)
	resp.Honored = &honored
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestPath, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid path encoding", errBadRequest))
		return
	}

	page, err := s.previews.page(r.Context(), requestPath)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		logging.FromContext(r.Context()).Debug("write preview", logging.FieldError, err)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	ent, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return ent, true
}

// describe snapshots a session and drains its events. withText includes
// the source text and the installed HTML.
func describe(ent *entry, withText bool) sessionResponse {
	snap := ent.sess.Snapshot()
	resp := sessionResponse{
		ID:    ent.id,
		Path:  ent.path,
		State: snap.State,
		Stats: snap.Stats,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	if withText {
		text := snap.Text
		resp.Text = &text
		if snap.Tree != nil {
			resp.HTML = snap.Tree.HTML
		}
	}
	resp.Events = ent.surface.drain()
	return resp
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var (
		validationErr *edit.ValidationError
		conflictErr   *edit.ConflictError
		maxBytesErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, fsutil.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fsutil.ErrOutsideRoot), errors.Is(err, fsutil.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, fsutil.ErrIsDirectory):
		return http.StatusBadRequest
	case errors.As(err, &validationErr), errors.As(err, &conflictErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, session.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.FieldError, err)
	} else {
		logger.Debug("request rejected", "status", status, logging.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
