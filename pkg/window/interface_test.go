package window

import (
	"context"
	"testing"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

type MockEnumerator struct {
	windows       []visibility.Window
	displays      []visibility.Display
	isAvailable   bool
	displayServer string
	closeError    error
}

func (m *MockEnumerator) ListWindows(ctx context.Context) ([]visibility.Window, error) {
	return m.windows, nil
}

func (m *MockEnumerator) ListDisplays(ctx context.Context) ([]visibility.Display, error) {
	return m.displays, nil
}

func (m *MockEnumerator) IsAvailable() bool {
	return m.isAvailable
}

func (m *MockEnumerator) GetDisplayServer() string {
	return m.displayServer
}

func (m *MockEnumerator) Close() error {
	return m.closeError
}

func newMock() *MockEnumerator {
	return &MockEnumerator{
		windows: []visibility.Window{
			{
				ID:         1,
				Position:   visibility.Point{X: 0, Y: 0},
				Size:       visibility.Size{Width: 800, Height: 600},
				Layer:      LayerNormal,
				StackOrder: 0,
				AppName:    "firefox",
			},
			{
				ID:         2,
				Position:   visibility.Point{X: 400, Y: 300},
				Size:       visibility.Size{Width: 800, Height: 600},
				Layer:      LayerAbove,
				StackOrder: 1,
				AppName:    "kitty",
			},
		},
		displays: []visibility.Display{
			{Name: "DP-1", Bounds: visibility.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		},
		isAvailable:   true,
		displayServer: "x11",
	}
}

func TestMockEnumerator(t *testing.T) {
	var _ Enumerator = (*MockEnumerator)(nil)

	mock := newMock()
	ctx := context.Background()

	windows, err := mock.ListWindows(ctx)
	if err != nil {
		t.Fatalf("ListWindows() error: %v", err)
	}
	displays, err := mock.ListDisplays(ctx)
	if err != nil {
		t.Fatalf("ListDisplays() error: %v", err)
	}

	result, err := visibility.ComputeVisibility(windows, displays)
	if err != nil {
		t.Fatalf("ComputeVisibility() error: %v", err)
	}

	if result[2] != 100 {
		t.Errorf("above-layer window = %.2f%%, want 100%%", result[2])
	}
	if result[1] != 75 {
		t.Errorf("normal window = %.2f%%, want 75%%", result[1])
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestLayerName(t *testing.T) {
	tests := []struct {
		layer int
		want  string
	}{
		{LayerBelow, "below"},
		{LayerNormal, "normal"},
		{LayerAbove, "above"},
		{LayerDock, "dock"},
		{LayerFullscreen, "fullscreen"},
		{42, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := LayerName(tt.layer); got != tt.want {
				t.Errorf("LayerName(%d) = %q, want %q", tt.layer, got, tt.want)
			}
		})
	}
}

func TestLayerOrdering(t *testing.T) {
	layers := []int{LayerBelow, LayerNormal, LayerAbove, LayerDock, LayerFullscreen}
	for i := 1; i < len(layers); i++ {
		if layers[i] <= layers[i-1] {
			t.Errorf("layer %s (%d) is not above %s (%d)",
				LayerName(layers[i]), layers[i], LayerName(layers[i-1]), layers[i-1])
		}
	}
}
