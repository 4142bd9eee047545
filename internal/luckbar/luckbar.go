// Package luckbar draws the split "luck" bar shown in every table row.
//
// The bar has a centre line. Team errors grow to the left in red and run
// support grows to the right in dark green, each scaled against a fixed
// domain so bars are comparable across rows and seasons.
package luckbar

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Scale holds the value domains of the two halves.
type Scale struct {
	ErrorsMin, ErrorsMax float64
	RunsMin, RunsMax     float64
}

// DefaultScale covers the usual range of per-start team errors and run
// support.
var DefaultScale = Scale{
	ErrorsMin: 0, ErrorsMax: 1.5,
	RunsMin: 0, RunsMax: 7.5,
}

// Fraction maps v onto [0,1] within [min,max]. NaN maps to 0 and values
// outside the domain are clamped. A degenerate domain (max == min) draws a
// full half-bar.
func Fraction(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if max == min {
		return 1
	}
	f := (v - min) / (max - min)
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Fractions returns the bar lengths of the errors (left) and run support
// (right) halves as fractions of a half-bar.
func Fractions(errors, runs float64, s Scale) (left, right float64) {
	return Fraction(errors, s.ErrorsMin, s.ErrorsMax), Fraction(runs, s.RunsMin, s.RunsMax)
}

// Style controls the SVG geometry and colours.
type Style struct {
	Width       float64
	Height      float64
	BarHeight   float64
	ErrorsFill  string
	RunsFill    string
	StrokeColor string
	ShowLabels  bool
	LabelColor  string
}

// DefaultStyle matches the table column width.
var DefaultStyle = Style{
	Width:       225,
	Height:      30,
	BarHeight:   20,
	ErrorsFill:  "red",
	RunsFill:    "darkgreen",
	StrokeColor: "transparent",
	ShowLabels:  true,
	LabelColor:  "white",
}

// SVG renders the split bar for one row.
func SVG(errors, runs float64, scale Scale, st Style) string {
	barHeight := math.Max(0, math.Min(st.BarHeight, st.Height))
	stroke := st.StrokeColor
	if stroke == "" {
		stroke = "transparent"
	}

	left, right := Fractions(errors, runs, scale)
	half := st.Width / 2
	leftW, rightW := left*half, right*half
	y := (st.Height - barHeight) / 2

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="luck-bar"><svg width="%s" height="%s" role="img" aria-label="%s">`,
		num(st.Width), num(st.Height), html.EscapeString(Label(errors, runs)))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
		num(half-leftW), num(y), num(leftW), num(barHeight), attr(st.ErrorsFill), attr(stroke))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
		num(half), num(y), num(rightW), num(barHeight), attr(st.RunsFill), attr(stroke))
	fmt.Fprintf(&b, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`,
		num(half), num(half), num(st.Height), attr(stroke))

	if st.ShowLabels {
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="12" text-anchor="start" dominant-baseline="middle">%s</text>`,
			num(half-leftW+5), num(st.Height/2), attr(st.LabelColor), value(errors))
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="12" text-anchor="end" dominant-baseline="middle">%s</text>`,
			num(half+rightW-5), num(st.Height/2), attr(st.LabelColor), value(runs))
	}

	b.WriteString(`</svg></div>`)
	return b.String()
}

// Label is the accessible description of a bar.
func Label(errors, runs float64) string {
	return fmt.Sprintf("team errors %s, run support %s", value(errors), value(runs))
}

func value(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func attr(s string) string {
	return html.EscapeString(s)
}
