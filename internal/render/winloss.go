package render

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
)

// StripStyle controls the win/loss strip geometry and colours.
type StripStyle struct {
	Width     float64
	Height    float64
	Spacing   float64
	WinColor  string
	LossColor string
	TieColor  string
}

// DefaultStripStyle draws wins in blue above the midline, losses in dark
// orange below it and no-decisions as short grey marks.
var DefaultStripStyle = StripStyle{
	Width:     250,
	Height:    30,
	Spacing:   1.5,
	WinColor:  "blue",
	LossColor: "darkorange",
	TieColor:  "grey",
}

// WinLossStrip draws one bar per start in game order.
func WinLossStrip(decisions []pitcher.Decision, st StripStyle) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="win-loss" role="img" width="%s" height="%s" viewBox="0 0 %s %s">`,
		f2(st.Width), f2(st.Height), f2(st.Width), f2(st.Height))

	n := float64(len(decisions))
	if n > 0 {
		barW := (st.Width - st.Spacing*(n-1)) / n
		if barW < 0.5 {
			barW = 0.5
		}
		mid := st.Height / 2
		half := mid - 1

		for i, d := range decisions {
			x := float64(i) * (barW + st.Spacing)
			y, h, fill := 0.0, half, st.WinColor
			switch d {
			case pitcher.Loss:
				y, fill = mid+1, st.LossColor
			case pitcher.NoDecision:
				y, h, fill = mid-2, 4, st.TieColor
			}
			fmt.Fprintf(&b, `<rect class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
				decisionClass(d), f2(x), f2(y), f2(barW), f2(h), fill)
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func decisionClass(d pitcher.Decision) string {
	switch d {
	case pitcher.Win:
		return "win"
	case pitcher.Loss:
		return "loss"
	}
	return "nd"
}

func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
