// Package server exposes an editor session over HTTP.
//
// The server holds one [editor.Editor] and serializes every request on a
// mutex; the engine packages themselves are not safe for concurrent use.
// Diagram and solution text travel as text/plain in the line format,
// everything else as JSON.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/logicdiagram/pkg/editor"
	"github.com/matzehuels/logicdiagram/pkg/store"
)

// Server serves one editor session.
type Server struct {
	mu     sync.Mutex
	editor *editor.Editor
	store  store.Store // optional
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /documents routes backed by st.
func WithStore(st store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server editing through ed.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{editor: ed, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.health)
	r.Get("/solution", s.locked(s.getSolution))
	r.Get("/tree", s.locked(s.getTree))
	r.Post("/projects", s.locked(s.addProject))
	r.Post("/projects/{index}/diagrams", s.locked(s.addDiagram))
	r.Post("/switch", s.locked(s.switchDiagram))

	r.Get("/diagram", s.locked(s.getDiagram))
	r.Put("/diagram", s.locked(s.putDiagram))

	r.Post("/elements", s.locked(s.insertElement))
	r.Post("/elements/{uid}/move", s.locked(s.moveElement))
	r.Delete("/elements/{uid}", s.locked(s.deleteElement))
	r.Post("/elements/{uid}/select-connected", s.locked(s.selectConnected))

	r.Post("/wires", s.locked(s.insertWire))
	r.Post("/wires/{id}/attach", s.locked(s.attach))
	r.Post("/wires/{id}/detach", s.locked(s.detach))
	r.Delete("/wires/{id}", s.locked(s.deleteWire))

	r.Get("/selection", s.locked(s.selection))
	r.Post("/undo", s.locked(s.undo))
	r.Post("/redo", s.locked(s.redo))

	if s.store != nil {
		r.Get("/documents", s.locked(s.listDocuments))
		r.Post("/documents", s.locked(s.saveDocument))
		r.Post("/documents/{id}/load", s.locked(s.loadDocument))
		r.Delete("/documents/{id}", s.locked(s.deleteDocument))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
