package luckbar

import (
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max float64
		want     float64
	}{
		{"zero", 0, 0, 1.5, 0},
		{"midpoint", 0.75, 0, 1.5, 0.5},
		{"max", 7.5, 0, 7.5, 1},
		{"over range", 12, 0, 7.5, 1},
		{"negative", -1, 0, 7.5, 0},
		{"NaN", math.NaN(), 0, 7.5, 0},
		{"infinite", math.Inf(1), 0, 7.5, 1},
		{"degenerate domain", 3, 2, 2, 1},
		{"degenerate domain below", 1, 2, 2, 1},
		{"degenerate domain NaN", math.NaN(), 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fraction(tt.v, tt.min, tt.max); got != tt.want {
				t.Errorf("Fraction(%v, %v, %v) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestFractions_AlwaysInUnitInterval(t *testing.T) {
	for errs := 0.0; errs <= 5; errs += 0.1 {
		for runs := 0.0; runs <= 15; runs += 0.25 {
			left, right := Fractions(errs, runs, DefaultScale)
			if left < 0 || left > 1 || right < 0 || right > 1 {
				t.Fatalf("Fractions(%v, %v) = (%v, %v), outside [0,1]", errs, runs, left, right)
			}
		}
	}
}

func TestFractions_Default(t *testing.T) {
	left, right := Fractions(0.3, 4.5, DefaultScale)
	if math.Abs(left-0.2) > 1e-9 {
		t.Errorf("left = %v, want 0.2", left)
	}
	if math.Abs(right-0.6) > 1e-9 {
		t.Errorf("right = %v, want 0.6", right)
	}
}

func TestSVG(t *testing.T) {
	out := SVG(0.75, 3.75, DefaultScale, DefaultStyle)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parsing SVG: %v", err)
	}

	rects := doc.Find("rect")
	if rects.Length() != 2 {
		t.Fatalf("found %d rects, want 2", rects.Length())
	}

	// Half width is 112.5; both values sit at the middle of their domain.
	errorsRect, runsRect := rects.Eq(0), rects.Eq(1)
	if w, _ := errorsRect.Attr("width"); w != "56.25" {
		t.Errorf("errors width = %s, want 56.25", w)
	}
	if x, _ := errorsRect.Attr("x"); x != "56.25" {
		t.Errorf("errors x = %s, want 56.25", x)
	}
	if fill, _ := errorsRect.Attr("fill"); fill != "red" {
		t.Errorf("errors fill = %s, want red", fill)
	}
	if x, _ := runsRect.Attr("x"); x != "112.50" {
		t.Errorf("runs x = %s, want 112.50", x)
	}
	if fill, _ := runsRect.Attr("fill"); fill != "darkgreen" {
		t.Errorf("runs fill = %s, want darkgreen", fill)
	}

	texts := doc.Find("text")
	if texts.Length() != 2 || texts.Eq(0).Text() != "0.8" || texts.Eq(1).Text() != "3.8" {
		t.Errorf("labels = %q, %q", texts.Eq(0).Text(), texts.Eq(1).Text())
	}
}

func TestSVG_NoLabelsAndClampedBarHeight(t *testing.T) {
	st := DefaultStyle
	st.ShowLabels = false
	st.BarHeight = 50

	out := SVG(2, 9, DefaultScale, st)

	if strings.Contains(out, "<text") {
		t.Error("labels rendered with ShowLabels = false")
	}
	if !strings.Contains(out, `height="30.00" fill="red"`) {
		t.Errorf("bar height not clamped to SVG height: %s", out)
	}
}
