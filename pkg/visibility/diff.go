package visibility

import (
	"image"

	"github.com/pkg/errors"
)

// SignificantlyDifferent reports whether more than fraction of the pixels
// of prev and cur differ in any channel. Images of different sizes are
// always different.
func SignificantlyDifferent(prev, cur *image.RGBA, fraction float64) bool {
	if prev.Rect.Size() != cur.Rect.Size() {
		return true
	}

	w, h := cur.Rect.Dx(), cur.Rect.Dy()
	if w == 0 || h == 0 {
		return false
	}

	changed := 0
	for y := range h {
		po := prev.PixOffset(prev.Rect.Min.X, prev.Rect.Min.Y+y)
		co := cur.PixOffset(cur.Rect.Min.X, cur.Rect.Min.Y+y)
		for x := range w {
			p, c := prev.Pix[po+4*x:po+4*x+3], cur.Pix[co+4*x:co+4*x+3]
			if p[0] != c[0] || p[1] != c[1] || p[2] != c[2] {
				changed++
			}
		}
	}
	return float64(changed)/float64(w*h) > fraction
}

// ChangedPixels attributes changed screen pixels to the window visible at
// each pixel. A pixel counts as changed when the summed absolute difference
// of its red, green and blue channels exceeds threshold. Both frames must
// have the size of the bitmap's canvas.
func ChangedPixels(b *Bitmap, prev, cur *image.RGBA, threshold int) (map[WindowID]int, error) {
	want := image.Pt(b.canvas.Width, b.canvas.Height)
	if prev.Rect.Size() != want || cur.Rect.Size() != want {
		return nil, errors.Errorf("frame size %v/%v does not match canvas %v",
			prev.Rect.Size(), cur.Rect.Size(), want)
	}

	counts := make([]int, len(b.windows)+1)
	for y := range want.Y {
		po := prev.PixOffset(prev.Rect.Min.X, prev.Rect.Min.Y+y)
		co := cur.PixOffset(cur.Rect.Min.X, cur.Rect.Min.Y+y)
		row := b.cells[y*want.X : (y+1)*want.X]
		for x, slot := range row {
			if slot == 0 {
				continue
			}
			p, c := prev.Pix[po+4*x:po+4*x+3], cur.Pix[co+4*x:co+4*x+3]
			d := absDiff(p[0], c[0]) + absDiff(p[1], c[1]) + absDiff(p[2], c[2])
			if d > threshold {
				counts[slot]++
			}
		}
	}

	changed := make(map[WindowID]int)
	for slot := 1; slot < len(counts); slot++ {
		if counts[slot] > 0 {
			changed[b.windows[slot-1].ID] += counts[slot]
		}
	}
	return changed, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
