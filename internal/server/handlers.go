package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/pfrederiksen/pitcher-luck/internal/chart"
	"github.com/pfrederiksen/pitcher-luck/internal/dataset"
	"github.com/pfrederiksen/pitcher-luck/internal/logger"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/render"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

// rows applies sel to its season. A season that is not loaded yields no
// rows.
func (s *Server) rows(sel view.Selection) []pitcher.Record {
	season, err := s.store.Season(sel.Year)
	if err != nil {
		if !errors.Is(err, dataset.ErrUnknownYear) {
			logger.Error("reading season", logger.Fields{"year": sel.Year}, err)
		}
		return nil
	}
	return view.Apply(season, sel)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sel := s.sessions.Resolve(w, r, s.store.Years())

	data := render.PageData{
		Selection:  sel,
		Years:      s.store.Years(),
		Teams:      s.store.Teams(sel.Year),
		Rows:       s.rows(sel),
		Links:      s.links,
		TeamFilter: true,
		Chart:      true,
	}
	templ.Handler(render.Page(data)).ServeHTTP(w, r)
	logger.RecordTiming("render.page", time.Since(start))
}

// handleTable serves the table alone for embedding in other pages.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	sel := s.sessions.Resolve(w, r, s.store.Years())
	templ.Handler(render.Table(s.rows(sel), s.links)).ServeHTTP(w, r)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sel := view.FromQuery(r.URL.Query(), s.store.Years())

	var buf bytes.Buffer
	err := chart.Render(&buf, s.rows(sel), chart.Options{Title: sel.String()})
	if errors.Is(err, chart.ErrNoData) {
		http.Error(w, "no pitchers match the selection", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("rendering chart", logger.Fields{"selection": sel.String()}, err)
		http.Error(w, "could not render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes()) // nolint:errcheck
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"seasons":   s.store.Years(),
		"records":   s.store.Len(),
		"images":    s.store.Images().Len(),
		"sessions":  s.sessions.Size(),
	})
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encoding response", nil, err)
	}
}
