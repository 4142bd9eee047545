package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ERA colour domain: at or below ERAMin is fully green, at or above ERAMax
// fully red, grey in between.
const (
	ERAMin = 1.5
	ERAMax = 7.5
)

var (
	eraGreen = colorful.Color{R: 0, G: 128.0 / 255, B: 0}
	eraGrey  = colorful.Color{R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255}
	eraRed   = colorful.Color{R: 1, G: 0, B: 0}
)

// ERAColor maps an ERA onto the green-grey-red palette, blending in Lab
// space. NaN maps to grey.
func ERAColor(era float64) colorful.Color {
	if math.IsNaN(era) {
		return eraGrey
	}
	t := (era - ERAMin) / (ERAMax - ERAMin)
	switch {
	case t <= 0:
		return eraGreen
	case t >= 1:
		return eraRed
	case t <= 0.5:
		return eraGreen.BlendLab(eraGrey, t*2).Clamped()
	default:
		return eraGrey.BlendLab(eraRed, (t-0.5)*2).Clamped()
	}
}

// TextColor picks black or white text for a background.
func TextColor(bg colorful.Color) string {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}
