package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tablekit/quicklinks/internal/editor"
	"github.com/tablekit/quicklinks/internal/livereload"
	"github.com/tablekit/quicklinks/internal/store"
	"github.com/tablekit/quicklinks/internal/viewer"
)

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool // allow all CORS origins (dev mode)
	LiveReload bool // push adventure file changes to open viewers
	// Debounce overrides the live-reload debounce window.
	Debounce time.Duration
}

// Server hosts the viewer, the form editor and the adventure API.
type Server struct {
	cfg        Config
	store      *store.Store
	viewer     *viewer.Handler
	editor     *editor.Editor
	hub        *livereload.Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over st, rendering documents with renderer and the
// PDFs resolved by pdfs.
func New(cfg Config, st *store.Store, renderer *viewer.Renderer, pdfs *viewer.PDFSource) *Server {
	s := &Server{
		cfg:    cfg,
		store:  st,
		viewer: &viewer.Handler{Store: st, Renderer: renderer, PDFs: pdfs, LiveReload: cfg.LiveReload},
		editor: editor.New(st, renderer, pdfs),
		hub:    livereload.NewHub(),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The reload socket stays open for the life of the page, so it sits
	// outside the request timeout.
	if s.cfg.LiveReload {
		s.hub.RegisterRoutes(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		viewer.RegisterRoutes(r, s.viewer)
		store.RegisterRoutes(r, s.store)
		s.editor.RegisterRoutes(r)
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live-reload hub.
func (s *Server) Hub() *livereload.Hub { return s.hub }

// Editor returns the form editor.
func (s *Server) Editor() *editor.Editor { return s.editor }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// WatchAdventures broadcasts changes in the store directory until ctx is
// cancelled. It is a no-op when live reload is disabled.
func (s *Server) WatchAdventures(ctx context.Context) error {
	if !s.cfg.LiveReload {
		return nil
	}
	return livereload.Start(ctx, s.store.Dir(), s.cfg.Debounce, s.hub)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("quicklinks server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
