package window

import (
	"context"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

// Layers used by the enumerators. Higher layers are always drawn above
// lower ones, whatever their stack order.
const (
	LayerBelow      = -1
	LayerNormal     = 0
	LayerAbove      = 1
	LayerDock       = 2
	LayerFullscreen = 3
)

// ErrNotAvailable is returned when no enumerator can run on this system.
var ErrNotAvailable = errors.New("no window enumerator available")

// Enumerator is the interface that all window system integrations must satisfy
type Enumerator interface {
	// ListWindows returns the windows that are currently mapped on the
	// active workspace, in no particular order
	ListWindows(ctx context.Context) ([]visibility.Window, error)

	// ListDisplays returns the bounds of every active display
	ListDisplays(ctx context.Context) ([]visibility.Display, error)

	// IsAvailable checks if this enumerator can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type ("x11" or "wayland")
	GetDisplayServer() string

	// Close cleans up any resources used by the enumerator
	Close() error
}

// LayerName returns a short label for a layer value.
func LayerName(layer int) string {
	switch layer {
	case LayerBelow:
		return "below"
	case LayerNormal:
		return "normal"
	case LayerAbove:
		return "above"
	case LayerDock:
		return "dock"
	case LayerFullscreen:
		return "fullscreen"
	default:
		return "custom"
	}
}
