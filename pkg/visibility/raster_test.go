package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func win(id WindowID, x, y, w, h, layer, stack int) Window {
	return Window{
		ID:         id,
		Position:   Point{X: x, Y: y},
		Size:       Size{Width: w, Height: h},
		Layer:      layer,
		StackOrder: stack,
	}
}

func ids(windows []Window) []WindowID {
	out := make([]WindowID, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.ID)
	}
	return out
}

func TestSortBackToFront(t *testing.T) {
	windows := []Window{
		win(1, 0, 0, 1, 1, 1, 0),
		win(2, 0, 0, 1, 1, 0, 5),
		win(3, 0, 0, 1, 1, 0, 1),
		win(4, 0, 0, 1, 1, 0, 5),
		win(5, 0, 0, 1, 1, -1, 9),
	}

	sorted := SortBackToFront(windows)
	assert.Equal(t, []WindowID{5, 3, 2, 4, 1}, ids(sorted))
	assert.Equal(t, []WindowID{1, 2, 3, 4, 5}, ids(windows), "input must not be reordered")
}

func TestFilterLayers(t *testing.T) {
	windows := []Window{
		win(1, 0, 0, 1, 1, 0, 0),
		win(2, 0, 0, 1, 1, 1, 0),
		win(3, 0, 0, 1, 1, 2, 0),
	}

	assert.Equal(t, []WindowID{1, 2, 3}, ids(FilterLayers(windows, nil)))
	assert.Equal(t, []WindowID{1, 3}, ids(FilterLayers(windows, []int{0, 2})))
	assert.Empty(t, FilterLayers(windows, []int{7}))
}

func TestRasterizeClipsToCanvas(t *testing.T) {
	canvas := Canvas{Origin: Point{X: -10, Y: -10}, Width: 20, Height: 20}
	b := Rasterize([]Window{win(7, -15, 5, 10, 100, 0, 0)}, canvas)

	// Canvas-local x in [0, 5), y in [15, 20).
	assert.Equal(t, WindowID(7), b.ID(0, 15))
	assert.Equal(t, WindowID(7), b.ID(4, 19))
	assert.Equal(t, WindowID(0), b.ID(5, 15))
	assert.Equal(t, WindowID(0), b.ID(0, 14))
	assert.Equal(t, 25, b.Covered())
}

func TestRasterizeOutOfRangeID(t *testing.T) {
	b := Rasterize([]Window{win(1, 0, 0, 4, 4, 0, 0)}, Canvas{Width: 4, Height: 4})
	assert.Equal(t, WindowID(0), b.ID(-1, 0))
	assert.Equal(t, WindowID(0), b.ID(0, 4))
	assert.Equal(t, WindowID(1), b.ID(3, 3))
}

func TestRasterizeLaterWindowWins(t *testing.T) {
	canvas := Canvas{Width: 10, Height: 10}
	b := Rasterize([]Window{
		win(1, 0, 0, 10, 10, 0, 2),
		win(2, 0, 0, 10, 10, 0, 1),
	}, canvas)

	assert.Equal(t, WindowID(1), b.ID(5, 5), "higher stack order paints last")
	assert.Equal(t, map[WindowID]int{1: 100}, b.Histogram())
}

func TestRasterizeTieKeepsInputOrder(t *testing.T) {
	canvas := Canvas{Width: 10, Height: 10}
	a := win(1, 0, 0, 10, 10, 0, 3)
	b := win(2, 0, 0, 10, 10, 0, 3)

	assert.Equal(t, WindowID(2), Rasterize([]Window{a, b}, canvas).ID(0, 0))
	assert.Equal(t, WindowID(1), Rasterize([]Window{b, a}, canvas).ID(0, 0))
}

func TestRasterizeLayerFilterExcludesWindows(t *testing.T) {
	canvas := Canvas{Width: 10, Height: 10}
	b := Rasterize([]Window{
		win(1, 0, 0, 10, 10, 0, 0),
		win(2, 0, 0, 10, 10, 1, 0),
	}, canvas, 0)

	require.Len(t, b.Windows(), 1)
	assert.Equal(t, WindowID(1), b.ID(0, 0))
}

func TestDegenerate(t *testing.T) {
	b := Rasterize([]Window{
		win(1, 0, 0, 0, 10, 0, 0),
		win(2, 0, 0, 10, 10, 0, 1),
		win(3, 0, 0, 10, 0, 0, 2),
	}, Canvas{Width: 10, Height: 10})

	assert.Equal(t, []WindowID{1, 3}, b.Degenerate())
}

func BenchmarkRasterize4K(b *testing.B) {
	canvas := Canvas{Width: 3840, Height: 2160}
	windows := []Window{
		win(1, 0, 0, 3840, 2160, 0, 0),
		win(2, 100, 100, 1920, 1080, 0, 1),
		win(3, 1000, 500, 1920, 1080, 0, 2),
		win(4, 2500, 1200, 1600, 1000, 1, 0),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Rasterize(windows, canvas).Visibility()
	}
}
