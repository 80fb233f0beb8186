package visibility

import "fmt"

// WindowID identifies a window. Zero is reserved for background.
type WindowID uint64

// Point is a position in the shared desktop coordinate space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Area returns Width*Height, or 0 for degenerate sizes.
func (s Size) Area() int64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return int64(s.Width) * int64(s.Height)
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", r.Width, r.Height, r.X, r.Y)
}

// Display is one physical monitor.
type Display struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds Rect   `json:"bounds" yaml:"bounds"`
}

// Window is one on-screen window as reported by the window system.
//
// Layer is a coarse ordering bucket (normal, always-on-top, ...) and always
// dominates StackOrder. AppName, Title and PID are carried along untouched.
type Window struct {
	ID         WindowID `json:"window_id"`
	Position   Point    `json:"position"`
	Size       Size     `json:"size"`
	Layer      int      `json:"layer"`
	StackOrder int      `json:"stack_order"`

	AppName string `json:"app_name,omitempty"`
	Title   string `json:"title,omitempty"`
	PID     int    `json:"pid,omitempty"`
}

// Degenerate reports whether the window has no area.
func (w Window) Degenerate() bool {
	return w.Size.Area() == 0
}

// Canvas is the smallest rectangle enclosing every display.
type Canvas struct {
	Origin Point
	Width  int
	Height int
}

// Pixels returns the number of cells a bitmap over the canvas holds.
func (c Canvas) Pixels() int {
	return c.Width * c.Height
}

// Rect returns the canvas in desktop coordinates.
func (c Canvas) Rect() Rect {
	return Rect{X: c.Origin.X, Y: c.Origin.Y, Width: c.Width, Height: c.Height}
}

// Result maps a window to the percentage of its area that is visible.
type Result map[WindowID]float64
