package visibility

import (
	"time"

	"github.com/pkg/errors"
)

// CreateBitmap builds the canvas from displays and rasterizes windows onto
// it. It fails only when the displays do not form a canvas.
func CreateBitmap(windows []Window, displays []Display, layers ...int) (*Bitmap, error) {
	canvas, err := ComputeCanvas(displays)
	if err != nil {
		return nil, err
	}
	return Rasterize(windows, canvas, layers...), nil
}

// ComputeVisibility returns the visible percentage of each window, taking
// occlusion by other windows and clipping to the displays into account.
// When layers are given, only windows on those layers take part and appear
// in the result. Identical input always yields identical output.
func ComputeVisibility(windows []Window, displays []Display, layers ...int) (Result, error) {
	b, err := CreateBitmap(windows, displays, layers...)
	if err != nil {
		return nil, err
	}
	return b.Visibility(), nil
}

// RenderVisualization rasterizes windows over displays and writes a
// color-coded image of the result to path. Encode and write failures are
// returned as *VisualizationError.
func RenderVisualization(windows []Window, displays []Display, path string) error {
	b, err := CreateBitmap(windows, displays)
	if err != nil {
		return errors.Wrap(err, "render visualization")
	}
	return b.Save(path)
}

// Save renders the bitmap and writes it to path.
func (b *Bitmap) Save(path string) error {
	start := time.Now()
	if err := WriteImage(Render(b), path); err != nil {
		return err
	}
	logger().Debug("bitmap saved", "path", path, "elapsed", time.Since(start))
	return nil
}
