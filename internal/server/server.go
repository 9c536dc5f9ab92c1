// Package server hosts synchronization sessions over HTTP for browser
// editors and serves annotated previews of documents below a root.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/resolve"
	"github.com/yaklabco/mdsync/pkg/runner"
	"github.com/yaklabco/mdsync/pkg/session"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Engine    markup.Engine
	Resolver  *resolve.Resolver
	Annotator *annotate.Annotator

	// Root is the directory documents are read from. Empty disables
	// file access.
	Root string

	// ClassPrefix must match the annotator's prefix for preview styling.
	ClassPrefix string

	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string

	// Debounce is the quiet period before a render; zero renders on every
	// change.
	Debounce time.Duration
	// Highlight defaults to session.DefaultHighlight.
	Highlight time.Duration

	// Clock overrides the session clock.
	Clock  session.Clock
	Logger *log.Logger
}

// Server is the HTTP host.
type Server struct {
	opts     Options
	logger   *log.Logger
	sessions *manager
	previews *previews
	router   chi.Router
	cancel   context.CancelFunc
}

// New creates a Server. Close releases its sessions.
func New(opts Options) *Server {
	if opts.Resolver == nil {
		opts.Resolver = resolve.New(resolve.DefaultOptions())
	}
	if opts.Annotator == nil {
		opts.Annotator = annotate.New(annotate.Options{ClassPrefix: opts.ClassPrefix})
	}
	if opts.ClassPrefix == "" {
		opts.ClassPrefix = annotate.DefaultClassPrefix
	}
	if opts.Debounce < 0 {
		opts.Debounce = session.DefaultDebounce
	}
	if opts.Highlight == 0 {
		opts.Highlight = session.DefaultHighlight
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	base, cancel := context.WithCancel(context.Background())
	srv := &Server{
		opts:   opts,
		logger: opts.Logger,
		cancel: cancel,
	}

	run := runner.New(opts.Engine, opts.Resolver)
	run.Logger = opts.Logger
	srv.previews = newPreviews(opts.Root, opts.ClassPrefix, run, opts.Annotator)
	srv.sessions = newManager(base, opts.Logger, srv.newSession)
	srv.router = srv.routes()
	return srv
}

func (s *Server) newSession(id string) *session.Session {
	sessOpts := []session.Option{
		session.WithResolver(s.opts.Resolver),
		session.WithAnnotator(s.opts.Annotator),
		session.WithDebounce(s.opts.Debounce),
		session.WithHighlight(s.opts.Highlight),
		session.WithLogger(s.logger.With(logging.FieldSession, id)),
	}
	if s.opts.Clock != nil {
		sessOpts = append(sessOpts, session.WithClock(s.opts.Clock))
	}
	return session.New(s.opts.Engine, sessOpts...)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close closes every session.
func (s *Server) Close() {
	s.cancel()
	s.sessions.closeAll()
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	s.logger.Info("serving", logging.FieldAddr, listener.Addr().String(), logging.FieldRoot, s.opts.Root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
