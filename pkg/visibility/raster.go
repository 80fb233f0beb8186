package visibility

import (
	"cmp"
	"slices"
	"time"
)

// Bitmap is a dense, row-major grid over a canvas. Each cell holds the slot
// of the topmost window painted there, 0 being background. Slots index the
// back-to-front window list, so the grid stays four bytes per pixel no
// matter how wide window ids are.
type Bitmap struct {
	canvas  Canvas
	cells   []uint32
	windows []Window
}

// FilterLayers returns the windows whose layer is in layers. An empty layer
// list keeps every window.
func FilterLayers(windows []Window, layers []int) []Window {
	if len(layers) == 0 {
		return slices.Clone(windows)
	}
	out := make([]Window, 0, len(windows))
	for _, w := range windows {
		if slices.Contains(layers, w.Layer) {
			out = append(out, w)
		}
	}
	return out
}

// SortBackToFront returns a copy of windows ordered by (Layer, StackOrder),
// lowest first. Windows with the same layer and stack order keep their
// input order, so the result depends on how the caller ordered them.
func SortBackToFront(windows []Window) []Window {
	out := slices.Clone(windows)
	slices.SortStableFunc(out, func(a, b Window) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.StackOrder, b.StackOrder)
	})
	return out
}

// Rasterize paints windows into a fresh bitmap over canvas using the
// painter's algorithm. When layers is non-empty, windows on other layers
// are left out entirely.
func Rasterize(windows []Window, canvas Canvas, layers ...int) *Bitmap {
	start := time.Now()

	ordered := SortBackToFront(FilterLayers(windows, layers))
	b := &Bitmap{
		canvas:  canvas,
		cells:   make([]uint32, canvas.Pixels()),
		windows: ordered,
	}
	for i, w := range ordered {
		b.paint(w, uint32(i+1))
	}

	logger().Debug("bitmap created",
		"windows", len(ordered),
		"width", canvas.Width,
		"height", canvas.Height,
		"elapsed", time.Since(start))
	return b
}

// clip translates w into canvas-local coordinates and clips it to the
// canvas. ok is false when nothing of w lands on the canvas.
func (b *Bitmap) clip(w Window) (r Rect, ok bool) {
	x0 := w.Position.X - b.canvas.Origin.X
	y0 := w.Position.Y - b.canvas.Origin.Y
	x1 := x0 + w.Size.Width
	y1 := y0 + w.Size.Height

	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.canvas.Width), min(y1, b.canvas.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

func (b *Bitmap) paint(w Window, slot uint32) {
	r, ok := b.clip(w)
	if !ok {
		return
	}

	stride := b.canvas.Width
	first := b.cells[r.Y*stride+r.X : r.Y*stride+r.X+r.Width]
	for i := range first {
		first[i] = slot
	}
	for y := r.Y + 1; y < r.Y+r.Height; y++ {
		copy(b.cells[y*stride+r.X:y*stride+r.X+r.Width], first)
	}
}

// Canvas returns the geometry the bitmap covers.
func (b *Bitmap) Canvas() Canvas {
	return b.canvas
}

// Windows returns the rasterized windows in back-to-front order.
func (b *Bitmap) Windows() []Window {
	return slices.Clone(b.windows)
}

// ID returns the window visible at canvas-local (x, y), or 0 for background
// and for coordinates outside the canvas.
func (b *Bitmap) ID(x, y int) WindowID {
	if x < 0 || y < 0 || x >= b.canvas.Width || y >= b.canvas.Height {
		return 0
	}
	slot := b.cells[y*b.canvas.Width+x]
	if slot == 0 {
		return 0
	}
	return b.windows[slot-1].ID
}

// Degenerate returns the ids of rasterized windows with zero width or height.
func (b *Bitmap) Degenerate() []WindowID {
	var ids []WindowID
	for _, w := range b.windows {
		if w.Degenerate() {
			ids = append(ids, w.ID)
		}
	}
	return ids
}
