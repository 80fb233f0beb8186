package visibility

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidInput is returned when no canvas can be formed from the
// displays: the list is empty or the union has no area.
var ErrInvalidInput = errors.New("invalid display input")

// VisualizationError reports a failure to encode or write a visualization.
// It never affects percentages that were computed from the same bitmap.
type VisualizationError struct {
	Path string
	Err  error
}

func (e *VisualizationError) Error() string {
	return fmt.Sprintf("write visualization %s: %v", e.Path, e.Err)
}

func (e *VisualizationError) Unwrap() error {
	return e.Err
}
