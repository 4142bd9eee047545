// Package chart draws the run support scatter shown under the table.
//
// Each visible pitcher is one dot: run support on the x axis and share of
// decisions won on the y axis. Pitchers with a winning record are blue,
// the rest dark orange, matching the win/loss strip colours.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no pitchers to plot")

// Default image size in pixels.
const (
	DefaultWidth  = 720
	DefaultHeight = 360
)

var (
	winColor  = drawing.ColorFromHex("1f77b4")
	lossColor = drawing.ColorFromHex("ff8c00")
)

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
}

// pointStyle draws dots without connecting lines.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: 0,
		DotWidth:    5,
		DotColor:    col,
	}
}

// Build assembles the chart for rows without rendering it.
func Build(rows []pitcher.Record, opts Options) (*gochart.Chart, error) {
	var winX, winY, lossX, lossY []float64
	maxRuns := 0.0
	for _, r := range rows {
		if math.IsNaN(r.RunSupport) {
			continue
		}
		if r.RunSupport > maxRuns {
			maxRuns = r.RunSupport
		}
		if r.Wins >= r.Losses && r.Wins > 0 {
			winX = append(winX, r.RunSupport)
			winY = append(winY, r.WinPct())
		} else {
			lossX = append(lossX, r.RunSupport)
			lossY = append(lossY, r.WinPct())
		}
	}
	if len(winX)+len(lossX) == 0 {
		return nil, ErrNoData
	}

	var series []gochart.Series
	if len(winX) > 0 {
		series = append(series, gochart.ContinuousSeries{Name: "Winning record", XValues: winX, YValues: winY, Style: pointStyle(winColor)})
	}
	if len(lossX) > 0 {
		series = append(series, gochart.ContinuousSeries{Name: "Losing record", XValues: lossX, YValues: lossY, Style: pointStyle(lossColor)})
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	// Fixed ranges keep a single dot renderable and charts comparable.
	xMax := math.Max(8, math.Ceil(maxRuns))
	ch := &gochart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "Run support (runs per start)",
			Range: &gochart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  "Win %",
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f*100)
				}
				return ""
			},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(ch)}
	return ch, nil
}

// Render writes rows as a PNG scatter to w.
func Render(w io.Writer, rows []pitcher.Record, opts Options) error {
	ch, err := Build(rows, opts)
	if err != nil {
		return err
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
