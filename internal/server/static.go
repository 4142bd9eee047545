package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StaticHandler serves an exported bundle from dir. The root path serves
// dir/index.html.
func StaticHandler(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

// ServeStatic serves the bundle in dir on addr until ctx is cancelled.
func ServeStatic(ctx context.Context, addr, dir string) error {
	return serve(ctx, addr, StaticHandler(dir), nil)
}
