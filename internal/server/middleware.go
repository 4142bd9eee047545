package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/pitcher-luck/internal/logger"
)

// requestLogger logs one line per request and records request metrics.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logger.IncrCounter("http.requests")
		logger.RecordTiming("http.request", elapsed)

		reqLog := logger.Default().With(logger.Fields{"request_id": middleware.GetReqID(r.Context())})
		fields := logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"bytes":       ww.BytesWritten(),
			"duration_ms": elapsed.Milliseconds(),
		}
		if status >= 500 {
			logger.IncrCounter("http.errors")
			reqLog.Warn("request failed", fields)
			return
		}
		reqLog.Debug("request", fields)
	})
}
