package visibility

import "github.com/pkg/errors"

// ComputeCanvas returns the smallest rectangle enclosing all displays.
func ComputeCanvas(displays []Display) (Canvas, error) {
	if len(displays) == 0 {
		return Canvas{}, errors.Wrap(ErrInvalidInput, "no displays")
	}

	first := displays[0].Bounds
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.Width, first.Y+first.Height

	for _, d := range displays[1:] {
		b := d.Bounds
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
		maxX = max(maxX, b.X+b.Width)
		maxY = max(maxY, b.Y+b.Height)
	}

	width, height := maxX-minX, maxY-minY
	if width <= 0 || height <= 0 {
		return Canvas{}, errors.Wrapf(ErrInvalidInput, "degenerate canvas %dx%d", width, height)
	}

	return Canvas{
		Origin: Point{X: minX, Y: minY},
		Width:  width,
		Height: height,
	}, nil
}
