package visibility

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	goldenRatioConjugate = 0.618033988749895
	firstHue             = 0.1 // skips pure red
	colorSaturation      = 0.95
	colorValue           = 0.95
)

// DistinctColors returns n visually distinct opaque colors. Hues are spread
// by the golden ratio with fixed saturation and value, so the sequence is
// the same for every call with the same n.
func DistinctColors(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}

	colors := make([]color.RGBA, 0, n)
	h := firstHue
	for range n {
		c := colorful.Hsv(h*360, colorSaturation, colorValue)
		colors = append(colors, color.RGBA{
			R: channel(c.R),
			G: channel(c.G),
			B: channel(c.B),
			A: 0xff,
		})
		h = math.Mod(h+goldenRatioConjugate, 1)
	}
	return colors
}

func channel(v float64) uint8 {
	return uint8(min(max(v, 0), 1) * 255)
}
