package wayland

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

type hyprWorkspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type hyprMonitor struct {
	Name             string        `json:"name"`
	X                int           `json:"x"`
	Y                int           `json:"y"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	Scale            float64       `json:"scale"`
	Transform        int           `json:"transform"`
	Disabled         bool          `json:"disabled"`
	ActiveWorkspace  hyprWorkspace `json:"activeWorkspace"`
	SpecialWorkspace hyprWorkspace `json:"specialWorkspace"`
}

// flag accepts both the boolean and the numeric encodings hyprctl has used
// for fullscreen state across releases
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	switch s := string(bytes.TrimSpace(data)); s {
	case "true":
		*f = true
	case "false", "null", "0":
		*f = false
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.Errorf("invalid flag %s", s)
		}
		*f = n != 0
	}
	return nil
}

type hyprClient struct {
	Address        string        `json:"address"`
	Mapped         bool          `json:"mapped"`
	Hidden         bool          `json:"hidden"`
	At             [2]int        `json:"at"`
	Size           [2]int        `json:"size"`
	Workspace      hyprWorkspace `json:"workspace"`
	Floating       bool          `json:"floating"`
	Pinned         bool          `json:"pinned"`
	Fullscreen     flag          `json:"fullscreen"`
	Class          string        `json:"class"`
	Title          string        `json:"title"`
	PID            int           `json:"pid"`
	FocusHistoryID int           `json:"focusHistoryID"`
}

func parseHyprlandMonitors(data []byte) ([]hyprMonitor, error) {
	var monitors []hyprMonitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return nil, errors.Wrap(err, "failed to parse hyprctl monitors")
	}
	return monitors, nil
}

// hyprlandDisplays converts monitors to logical display bounds. Monitor
// sizes are reported in physical pixels; client geometry is logical.
func hyprlandDisplays(monitors []hyprMonitor) []visibility.Display {
	var displays []visibility.Display
	for _, m := range monitors {
		if m.Disabled {
			continue
		}
		scale := m.Scale
		if scale <= 0 {
			scale = 1
		}
		w := int(float64(m.Width) / scale)
		h := int(float64(m.Height) / scale)
		if m.Transform%2 == 1 {
			w, h = h, w
		}
		displays = append(displays, visibility.Display{
			Name:   m.Name,
			Bounds: visibility.Rect{X: m.X, Y: m.Y, Width: w, Height: h},
		})
	}
	return displays
}

func activeWorkspaces(monitors []hyprMonitor) map[int]bool {
	active := make(map[int]bool)
	for _, m := range monitors {
		if m.Disabled {
			continue
		}
		active[m.ActiveWorkspace.ID] = true
		if m.SpecialWorkspace.ID != 0 {
			active[m.SpecialWorkspace.ID] = true
		}
	}
	return active
}

// parseHyprlandClients returns the mapped clients on active workspaces.
// focusHistoryID 0 is the most recently focused window, so it is stacked
// highest.
func parseHyprlandClients(data []byte, active map[int]bool) ([]visibility.Window, error) {
	var clients []hyprClient
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, errors.Wrap(err, "failed to parse hyprctl clients")
	}

	var windows []visibility.Window
	for _, c := range clients {
		if !c.Mapped || c.Hidden || !active[c.Workspace.ID] {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(c.Address, "0x"), 16, 64)
		if err != nil || id == 0 {
			continue
		}

		layer := window.LayerNormal
		switch {
		case bool(c.Fullscreen):
			layer = window.LayerFullscreen
		case c.Floating || c.Pinned:
			layer = window.LayerAbove
		}

		windows = append(windows, visibility.Window{
			ID:         visibility.WindowID(id),
			Position:   visibility.Point{X: c.At[0], Y: c.At[1]},
			Size:       visibility.Size{Width: c.Size[0], Height: c.Size[1]},
			Layer:      layer,
			StackOrder: -c.FocusHistoryID,
			AppName:    c.Class,
			Title:      c.Title,
			PID:        c.PID,
		})
	}
	return windows, nil
}
