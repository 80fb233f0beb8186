package x11

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

// maxListLength bounds property reads of window lists, in 32-bit units.
const maxListLength = 4096

// allDesktops is the _NET_WM_DESKTOP value of sticky windows.
const allDesktops = 0xFFFFFFFF

var atomNames = []string{
	"_NET_CLIENT_LIST_STACKING",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_STATE_BELOW",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_FRAME_EXTENTS",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// Enumerator implements window.Enumerator for X11 using EWMH hints
type Enumerator struct {
	conn     *xgb.Conn
	root     xproto.Window
	atoms    map[string]xproto.Atom
	hasRandr bool
}

// NewEnumerator connects to the X server named by $DISPLAY
func NewEnumerator() (*Enumerator, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	e := &Enumerator{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		e.atoms[name] = reply.Atom
	}

	e.hasRandr = randr.Init(conn) == nil
	return e, nil
}

// IsAvailable checks if the X connection is usable
func (e *Enumerator) IsAvailable() bool {
	return e.conn != nil
}

// GetDisplayServer returns "x11"
func (e *Enumerator) GetDisplayServer() string {
	return "x11"
}

// ListWindows returns the viewable client windows of the current desktop.
// StackOrder is the position in _NET_CLIENT_LIST_STACKING, bottom first.
func (e *Enumerator) ListWindows(ctx context.Context) ([]visibility.Window, error) {
	data, err := e.getProperty(e.root, e.atoms["_NET_CLIENT_LIST_STACKING"], xproto.AtomWindow, maxListLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read client stacking list")
	}

	current, hasCurrent := e.getCardinal(e.root, e.atoms["_NET_CURRENT_DESKTOP"])

	var windows []visibility.Window
	for i, id := range decodeUint32s(data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		win := xproto.Window(id)
		attrs, err := xproto.GetWindowAttributes(e.conn, win).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}

		if hasCurrent {
			if desk, ok := e.getCardinal(win, e.atoms["_NET_WM_DESKTOP"]); ok && !onDesktop(desk, current) {
				continue
			}
		}

		states := e.getAtoms(win, e.atoms["_NET_WM_STATE"])
		if containsAtom(states, e.atoms["_NET_WM_STATE_HIDDEN"]) {
			continue
		}
		types := e.getAtoms(win, e.atoms["_NET_WM_WINDOW_TYPE"])

		bounds, err := e.getBounds(win)
		if err != nil {
			continue
		}

		instance, class := e.getWindowClass(win)
		appName := class
		if appName == "" {
			appName = instance
		}

		windows = append(windows, visibility.Window{
			ID:         visibility.WindowID(win),
			Position:   visibility.Point{X: bounds.X, Y: bounds.Y},
			Size:       visibility.Size{Width: bounds.Width, Height: bounds.Height},
			Layer:      e.layerFor(states, types),
			StackOrder: i,
			AppName:    appName,
			Title:      e.getWindowName(win),
			PID:        int(e.getWindowPID(win)),
		})
	}

	return windows, nil
}

// getBounds returns the outer frame of a client window in root coordinates
func (e *Enumerator) getBounds(win xproto.Window) (visibility.Rect, error) {
	geom, err := xproto.GetGeometry(e.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return visibility.Rect{}, err
	}
	pos, err := xproto.TranslateCoordinates(e.conn, win, e.root, 0, 0).Reply()
	if err != nil {
		return visibility.Rect{}, err
	}

	r := visibility.Rect{
		X:      int(pos.DstX),
		Y:      int(pos.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}

	extents, _ := e.getProperty(win, e.atoms["_NET_FRAME_EXTENTS"], xproto.AtomCardinal, 4)
	return withFrameExtents(r, decodeUint32s(extents)), nil
}

// ListDisplays returns the active RandR CRTCs, or the root window when
// RandR is unavailable
func (e *Enumerator) ListDisplays(ctx context.Context) ([]visibility.Display, error) {
	if e.hasRandr {
		displays, err := e.randrDisplays()
		if err == nil && len(displays) > 0 {
			return displays, nil
		}
	}

	geom, err := xproto.GetGeometry(e.conn, xproto.Drawable(e.root)).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get root geometry")
	}
	return []visibility.Display{{
		Name:   "root",
		Bounds: visibility.Rect{Width: int(geom.Width), Height: int(geom.Height)},
	}}, nil
}

func (e *Enumerator) randrDisplays() ([]visibility.Display, error) {
	resources, err := randr.GetScreenResources(e.conn, e.root).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get screen resources")
	}

	var displays []visibility.Display
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(e.conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(e.conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		displays = append(displays, visibility.Display{
			Name: name,
			Bounds: visibility.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return displays, nil
}

// Close disconnects from the X server
func (e *Enumerator) Close() error {
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}
	return nil
}

func (e *Enumerator) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(e.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (e *Enumerator) getCardinal(win xproto.Window, atom xproto.Atom) (uint32, bool) {
	data, err := e.getProperty(win, atom, xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

func (e *Enumerator) getAtoms(win xproto.Window, atom xproto.Atom) []xproto.Atom {
	data, err := e.getProperty(win, atom, xproto.AtomAtom, 64)
	if err != nil {
		return nil
	}
	values := decodeUint32s(data)
	atoms := make([]xproto.Atom, len(values))
	for i, v := range values {
		atoms[i] = xproto.Atom(v)
	}
	return atoms
}

func (e *Enumerator) getWindowName(win xproto.Window) string {
	data, err := e.getProperty(win, e.atoms["_NET_WM_NAME"], e.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = e.getProperty(win, e.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (e *Enumerator) getWindowClass(win xproto.Window) (instance, class string) {
	data, err := e.getProperty(win, e.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil {
		return "", ""
	}
	return splitWMClass(data)
}

func (e *Enumerator) getWindowPID(win xproto.Window) uint32 {
	pid, _ := e.getCardinal(win, e.atoms["_NET_WM_PID"])
	return pid
}

// layerFor maps EWMH state and type hints onto window layers
func (e *Enumerator) layerFor(states, types []xproto.Atom) int {
	switch {
	case containsAtom(states, e.atoms["_NET_WM_STATE_FULLSCREEN"]):
		return window.LayerFullscreen
	case containsAtom(types, e.atoms["_NET_WM_WINDOW_TYPE_DOCK"]):
		return window.LayerDock
	case containsAtom(states, e.atoms["_NET_WM_STATE_ABOVE"]):
		return window.LayerAbove
	case containsAtom(states, e.atoms["_NET_WM_STATE_BELOW"]):
		return window.LayerBelow
	default:
		return window.LayerNormal
	}
}

func decodeUint32s(data []byte) []uint32 {
	values := make([]uint32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		values = append(values, binary.LittleEndian.Uint32(data[i:]))
	}
	return values
}

func containsAtom(atoms []xproto.Atom, atom xproto.Atom) bool {
	if atom == 0 {
		return false
	}
	for _, a := range atoms {
		if a == atom {
			return true
		}
	}
	return false
}

func onDesktop(desk, current uint32) bool {
	return desk == allDesktops || desk == current
}

// splitWMClass splits the NUL separated WM_CLASS value
func splitWMClass(data []byte) (instance, class string) {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// withFrameExtents grows a client rectangle by its decoration sizes
// (left, right, top, bottom)
func withFrameExtents(r visibility.Rect, extents []uint32) visibility.Rect {
	if len(extents) != 4 {
		return r
	}
	left, right, top, bottom := int(extents[0]), int(extents[1]), int(extents[2]), int(extents[3])
	return visibility.Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}
