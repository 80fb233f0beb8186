package utils

import (
	"fmt"
	"math"
)

// FormatRoundedUnit renders a duration in seconds using the largest unit
// that keeps it readable: "42s", "17m" or "3.5h".
func FormatRoundedUnit(seconds float64) string {
	seconds = math.Abs(seconds)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.0fs", math.Floor(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%.0fm", math.Floor(seconds/60))
	default:
		return fmt.Sprintf("%.1fh", math.Floor(seconds/360)/10)
	}
}

// Bar draws a fixed-width bar for a percentage in [0, 100].
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(percent, 100)) / 100 * float64(width)))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return string(bar)
}
