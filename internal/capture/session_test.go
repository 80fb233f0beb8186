package capture

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

func solid(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestGrabRebasesToOrigin(t *testing.T) {
	var requested image.Rectangle
	s := &Session{grab: func(r image.Rectangle) (*image.RGBA, error) {
		requested = r
		return solid(r, color.RGBA{R: 200, A: 255}), nil
	}}

	canvas := visibility.Canvas{Origin: visibility.Point{X: -100, Y: 50}, Width: 40, Height: 30}
	img, err := s.Grab(canvas)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(-100, 50, -60, 80), requested)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Equal(t, color.RGBA{R: 200, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 200, A: 255}, img.RGBAAt(39, 29))
}

func TestGrabDownscalesHiDPI(t *testing.T) {
	s := &Session{grab: func(r image.Rectangle) (*image.RGBA, error) {
		// device pixels at 2x
		img := solid(image.Rect(0, 0, r.Dx()*2, r.Dy()*2), color.RGBA{B: 255, A: 255})
		for y := 0; y < r.Dy()*2; y++ {
			for x := 0; x < r.Dx(); x++ {
				img.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
			}
		}
		return img, nil
	}}

	img, err := s.Grab(visibility.Canvas{Width: 10, Height: 4})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 10, 4), img.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(9, 3))
}

func TestGrabErrors(t *testing.T) {
	s := &Session{grab: func(image.Rectangle) (*image.RGBA, error) {
		return nil, errors.New("boom")
	}}

	_, err := s.Grab(visibility.Canvas{Width: 10, Height: 10})
	assert.ErrorContains(t, err, "boom")

	_, err = s.Grab(visibility.Canvas{Width: 0, Height: 10})
	assert.ErrorIs(t, err, visibility.ErrInvalidInput)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Grab(visibility.Canvas{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("No display available")
	}

	s, err := Open()
	if err != nil {
		t.Skipf("capture unavailable: %v", err)
	}
	defer s.Close()

	displays := Displays()
	t.Logf("Capture displays: %d", len(displays))
}
