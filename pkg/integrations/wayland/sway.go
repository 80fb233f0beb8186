package wayland

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

type swayRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type swayNode struct {
	ID               int64      `json:"id"`
	Type             string     `json:"type"`
	Name             string     `json:"name"`
	Rect             swayRect   `json:"rect"`
	PID              int        `json:"pid"`
	AppID            string     `json:"app_id"`
	Visible          *bool      `json:"visible"`
	FullscreenMode   int        `json:"fullscreen_mode"`
	Nodes            []swayNode `json:"nodes"`
	FloatingNodes    []swayNode `json:"floating_nodes"`
	WindowProperties struct {
		Class string `json:"class"`
	} `json:"window_properties"`
}

type swayOutput struct {
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Rect   swayRect `json:"rect"`
}

// parseSwayTree walks the layout tree in drawing order. Tiled views come
// first, floating views after them; StackOrder is the walk position.
func parseSwayTree(data []byte) ([]visibility.Window, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "failed to parse sway tree")
	}

	var windows []visibility.Window
	var walk func(n swayNode, floating bool)
	walk = func(n swayNode, floating bool) {
		if n.Type == "output" && n.Name == "__i3" {
			return
		}
		if isSwayView(n) {
			if n.Visible != nil && *n.Visible {
				windows = append(windows, swayWindow(n, floating, len(windows)))
			}
			return
		}
		for _, child := range n.Nodes {
			walk(child, floating)
		}
		for _, child := range n.FloatingNodes {
			walk(child, true)
		}
	}
	walk(root, false)

	return windows, nil
}

func isSwayView(n swayNode) bool {
	return (n.Type == "con" || n.Type == "floating_con") &&
		len(n.Nodes) == 0 && len(n.FloatingNodes) == 0 && n.PID > 0
}

func swayWindow(n swayNode, floating bool, order int) visibility.Window {
	layer := window.LayerNormal
	switch {
	case n.FullscreenMode != 0:
		layer = window.LayerFullscreen
	case floating || n.Type == "floating_con":
		layer = window.LayerAbove
	}

	app := n.AppID
	if app == "" {
		app = n.WindowProperties.Class
	}

	return visibility.Window{
		ID:         visibility.WindowID(n.ID),
		Position:   visibility.Point{X: n.Rect.X, Y: n.Rect.Y},
		Size:       visibility.Size{Width: n.Rect.Width, Height: n.Rect.Height},
		Layer:      layer,
		StackOrder: order,
		AppName:    app,
		Title:      n.Name,
		PID:        n.PID,
	}
}

func parseSwayOutputs(data []byte) ([]visibility.Display, error) {
	var outputs []swayOutput
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, errors.Wrap(err, "failed to parse sway outputs")
	}

	var displays []visibility.Display
	for _, o := range outputs {
		if !o.Active {
			continue
		}
		displays = append(displays, visibility.Display{
			Name:   o.Name,
			Bounds: visibility.Rect{X: o.Rect.X, Y: o.Rect.Y, Width: o.Rect.Width, Height: o.Rect.Height},
		})
	}
	return displays, nil
}
