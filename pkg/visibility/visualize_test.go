package visibility

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func visualizeFixture() ([]Window, []Display) {
	windows := []Window{
		win(10, 0, 0, 5, 5, 0, 0),
		win(20, 5, 5, 5, 5, 0, 1),
		win(30, 0, 0, 2, 2, 0, -1), // fully hidden behind 10
	}
	displays := []Display{{Bounds: Rect{X: 0, Y: 0, Width: 10, Height: 10}}}
	return windows, displays
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestRender(t *testing.T) {
	windows, displays := visualizeFixture()
	b, err := CreateBitmap(windows, displays)
	require.NoError(t, err)

	img := Render(b)
	require.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())

	colors := DistinctColors(3)
	black := color.RGBA{A: 255}
	assert.Equal(t, colors[1], img.RGBAAt(0, 0))
	assert.Equal(t, colors[1], img.RGBAAt(4, 4))
	assert.Equal(t, colors[2], img.RGBAAt(9, 9))
	assert.Equal(t, black, img.RGBAAt(9, 0))
	assert.Equal(t, black, img.RGBAAt(0, 9))
}

func TestRenderVisualizationPNG(t *testing.T) {
	windows, displays := visualizeFixture()
	path := filepath.Join(t.TempDir(), "bitmap.png")

	require.NoError(t, RenderVisualization(windows, displays, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	colors := DistinctColors(3)
	assert.Equal(t, colors[1], rgba(img.At(1, 1)))
	assert.Equal(t, colors[2], rgba(img.At(6, 6)))
	assert.Equal(t, color.RGBA{A: 255}, rgba(img.At(8, 1)))
}

func TestRenderVisualizationBMP(t *testing.T) {
	windows, displays := visualizeFixture()
	path := filepath.Join(t.TempDir(), "bitmap.bmp")

	require.NoError(t, RenderVisualization(windows, displays, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}

func TestRenderVisualizationWriteError(t *testing.T) {
	windows, displays := visualizeFixture()
	path := filepath.Join(t.TempDir(), "missing", "bitmap.png")

	err := RenderVisualization(windows, displays, path)
	require.Error(t, err)

	var verr *VisualizationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, path, verr.Path)
	assert.NoFileExists(t, path)
}

func TestRenderVisualizationInvalidDisplays(t *testing.T) {
	windows, _ := visualizeFixture()

	err := RenderVisualization(windows, nil, filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verr *VisualizationError
	assert.False(t, errors.As(err, &verr))
}

func TestVisualizationFailureKeepsPercentages(t *testing.T) {
	windows, displays := visualizeFixture()
	b, err := CreateBitmap(windows, displays)
	require.NoError(t, err)

	before := b.Visibility()
	require.Error(t, b.Save(filepath.Join(t.TempDir(), "nope", "x.png")))
	assert.Equal(t, before, b.Visibility())
	assert.Equal(t, Result{10: 100, 20: 100, 30: 0}, before)
}
