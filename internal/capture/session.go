// Package capture grabs screen contents for pixel-change tracking.
package capture

import (
	"image"
	"sync"

	"github.com/kbinani/screenshot"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

var ErrClosed = errors.New("capture session closed")

// grabber captures a rectangle of the screen
type grabber func(image.Rectangle) (*image.RGBA, error)

// Session is a scoped screen capture handle. It must be closed after use.
type Session struct {
	mu     sync.Mutex
	grab   grabber
	closed bool
}

// Open starts a capture session. It fails when no display is active.
func Open() (*Session, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, errors.New("no active displays to capture")
	}
	return &Session{grab: screenshot.CaptureRect}, nil
}

// Grab captures the canvas rectangle. The result always has the canvas
// dimensions with its origin at (0, 0); captures taken at a higher device
// resolution are scaled down.
func (s *Session) Grab(canvas visibility.Canvas) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, errors.Wrapf(visibility.ErrInvalidInput, "degenerate canvas %dx%d", canvas.Width, canvas.Height)
	}

	r := canvas.Rect()
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	img, err := s.grab(rect)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to capture %s", r)
	}

	return fit(img, canvas.Width, canvas.Height), nil
}

// Close releases the session. Calling Close twice is harmless.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fit rebases img to (0, 0) and scales it to width x height.
func fit(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height && b.Min == (image.Point{}) {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if b.Dx() == width && b.Dy() == height {
		xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Displays returns the bounds of every active display as seen by the
// capture backend.
func Displays() []visibility.Display {
	n := screenshot.NumActiveDisplays()
	displays := make([]visibility.Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, visibility.Display{
			Bounds: visibility.Rect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()},
		})
	}
	return displays
}
