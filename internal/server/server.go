// Package server runs the live dashboard.
//
// Every request recomputes the visible rows from the preloaded Store: the
// selection comes from the query string or the browser's session, goes
// through view.Apply and is rendered with the render components. Nothing is
// written back to the data.
//
// GET /table is the embedding API: it takes the same query parameters as
// the page and returns only the pitcher table, so another site can pull
// the table into its own layout. Cross-origin callers are allowed through
// Options.CORSOrigins.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pfrederiksen/pitcher-luck/internal/dataset"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/render"
	"github.com/pfrederiksen/pitcher-luck/internal/session"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Hour
)

// Options configures a Server.
type Options struct {
	CORSOrigins []string
}

// Server serves the dashboard for one Store.
type Server struct {
	store    *dataset.Store
	sessions *session.Store
	links    render.LiveLinker
	router   chi.Router
}

// New creates a server and its routes.
func New(store *dataset.Store, opts Options) *Server {
	s := &Server{
		store:    store,
		sessions: session.NewStore(),
		links:    render.LiveLinker{Images: store.Images()},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handlePage)
	r.Get("/table", s.handleTable) // embeddable fragment, not linked from the page
	r.Get("/chart.png", s.handleChart)
	r.Handle("/img/*", http.StripPrefix("/img", store.Images()))
	r.Get("/healthz", s.handleHealth)
	r.Get("/debug/metrics", handleMetrics)

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	return serve(ctx, addr, s.router, func(ctx context.Context) {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sessions.CleanExpired(); n > 0 {
					logger.Debug("expired sessions removed", logger.Fields{"count": n})
				}
				logger.SetGauge("sessions.active", float64(s.sessions.Size()))
			}
		}
	})
}

// serve runs handler on addr with background work bound to ctx.
func serve(ctx context.Context, addr string, handler http.Handler, background func(context.Context)) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", logger.Fields{"addr": addr, "url": "http://" + addr + "/"})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if background != nil {
		go background(ctx)
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", logger.Fields{"addr": addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped", nil)
	return nil
}
