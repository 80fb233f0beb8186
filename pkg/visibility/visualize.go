package visibility

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// palette returns the color of every slot in the bitmap. Slot 0 is black;
// windows that are visible get distinct colors in back-to-front order and
// fully hidden windows stay black.
func (b *Bitmap) palette() []color.RGBA {
	counts := b.slotCounts()

	var present []int
	for slot := 1; slot < len(counts); slot++ {
		if counts[slot] > 0 {
			present = append(present, slot)
		}
	}

	// The first generated color belongs to the background, which is
	// always drawn black.
	colors := DistinctColors(len(present) + 1)
	table := make([]color.RGBA, len(counts))
	table[0] = color.RGBA{A: 0xff}
	for i, slot := range present {
		table[slot] = colors[i+1]
	}
	return table
}

// Render returns an image of the bitmap with one color per visible window.
func Render(b *Bitmap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.canvas.Width, b.canvas.Height))
	table := b.palette()
	for i, slot := range b.cells {
		c := table[slot]
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return img
}

// WriteImage encodes img to path. The format follows the file extension:
// .bmp, .tif/.tiff, .jpg/.jpeg, anything else is written as PNG. Failures
// are returned as *VisualizationError and leave no partial file behind.
func WriteImage(img image.Image, path string) error {
	if err := writeImage(img, path); err != nil {
		return &VisualizationError{Path: path, Err: err}
	}
	return nil
}

func writeImage(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close image file")
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return errors.Wrap(encode(f, img, filepath.Ext(path)), "encode image")
}

func encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		return png.Encode(w, img)
	}
}
