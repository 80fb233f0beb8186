package visibility_test

import (
	"fmt"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

func ExampleComputeVisibility() {
	displays := []visibility.Display{
		{Bounds: visibility.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}},
	}
	windows := []visibility.Window{
		{ID: 1, Position: visibility.Point{X: 0, Y: 0}, Size: visibility.Size{Width: 200, Height: 200}, StackOrder: 1},
		{ID: 2, Position: visibility.Point{X: 100, Y: 100}, Size: visibility.Size{Width: 200, Height: 200}, StackOrder: 2},
	}

	result, err := visibility.ComputeVisibility(windows, displays)
	if err != nil {
		panic(err)
	}
	fmt.Printf("window 1: %.1f%%\n", result[1])
	fmt.Printf("window 2: %.1f%%\n", result[2])
	// Output:
	// window 1: 75.0%
	// window 2: 100.0%
}
