package visibility

import "time"

// slotCounts walks the grid once and returns the number of cells per slot.
// Index 0 is background.
func (b *Bitmap) slotCounts() []int {
	counts := make([]int, len(b.windows)+1)
	for _, slot := range b.cells {
		counts[slot]++
	}
	return counts
}

// Histogram returns the number of visible pixels per window id. Windows
// that are completely hidden are absent. Windows sharing an id are summed,
// unlike Visibility which reports only the front-most of them.
func (b *Bitmap) Histogram() map[WindowID]int {
	counts := b.slotCounts()
	hist := make(map[WindowID]int)
	for slot := 1; slot < len(counts); slot++ {
		if counts[slot] > 0 {
			hist[b.windows[slot-1].ID] += counts[slot]
		}
	}
	return hist
}

// Covered returns the number of non-background cells.
func (b *Bitmap) Covered() int {
	return len(b.cells) - b.slotCounts()[0]
}

// Visibility returns the visible percentage of every rasterized window,
// measured against its full nominal area. Degenerate windows get 0. When
// several windows share an id, the front-most one's percentage is kept.
func (b *Bitmap) Visibility() Result {
	start := time.Now()

	counts := b.slotCounts()
	res := make(Result, len(b.windows))
	for i, w := range b.windows {
		res[w.ID] = percent(counts[i+1], w.Size.Area())
	}

	logger().Debug("pixels counted", "windows", len(b.windows), "elapsed", time.Since(start))
	return res
}

func percent(visible int, area int64) float64 {
	if area == 0 {
		return 0
	}
	return 100 * float64(visible) / float64(area)
}
