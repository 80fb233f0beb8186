package x11

import (
	"context"
	"encoding/binary"
	"os"
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

func encodeUint32s(values ...uint32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], v)
	}
	return data
}

func TestDecodeUint32s(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []uint32
	}{
		{"empty", nil, []uint32{}},
		{"three values", encodeUint32s(1, 0x1c00003, 0xFFFFFFFF), []uint32{1, 0x1c00003, 0xFFFFFFFF}},
		{"trailing bytes ignored", append(encodeUint32s(7), 1, 2), []uint32{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeUint32s(tt.data)
			if len(got) != len(tt.want) {
				t.Fatalf("decodeUint32s() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("value %d = %#x, want %#x", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitWMClass(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantInstance string
		wantClass    string
	}{
		{"Standard format", "Navigator\x00Firefox\x00", "Navigator", "Firefox"},
		{"Same instance and class", "kitty\x00kitty\x00", "kitty", "kitty"},
		{"Instance only", "xterm\x00", "xterm", ""},
		{"Empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance, class := splitWMClass([]byte(tt.input))
			if instance != tt.wantInstance || class != tt.wantClass {
				t.Errorf("splitWMClass(%q) = (%q, %q), want (%q, %q)",
					tt.input, instance, class, tt.wantInstance, tt.wantClass)
			}
		})
	}
}

func TestOnDesktop(t *testing.T) {
	if !onDesktop(2, 2) {
		t.Error("window on current desktop should be shown")
	}
	if onDesktop(1, 2) {
		t.Error("window on other desktop should be hidden")
	}
	if !onDesktop(allDesktops, 5) {
		t.Error("sticky window should be shown on every desktop")
	}
}

func TestWithFrameExtents(t *testing.T) {
	client := visibility.Rect{X: 100, Y: 130, Width: 800, Height: 600}

	got := withFrameExtents(client, []uint32{2, 2, 30, 2})
	want := visibility.Rect{X: 98, Y: 100, Width: 804, Height: 632}
	if got != want {
		t.Errorf("withFrameExtents() = %v, want %v", got, want)
	}

	if got := withFrameExtents(client, nil); got != client {
		t.Errorf("withFrameExtents() without extents = %v, want %v", got, client)
	}
}

func TestLayerFor(t *testing.T) {
	e := &Enumerator{atoms: map[string]xproto.Atom{
		"_NET_WM_STATE_ABOVE":      10,
		"_NET_WM_STATE_BELOW":      11,
		"_NET_WM_STATE_FULLSCREEN": 12,
		"_NET_WM_WINDOW_TYPE_DOCK": 13,
	}}

	tests := []struct {
		name   string
		states []xproto.Atom
		types  []xproto.Atom
		want   int
	}{
		{"normal", nil, nil, window.LayerNormal},
		{"above", []xproto.Atom{10}, nil, window.LayerAbove},
		{"below", []xproto.Atom{11}, nil, window.LayerBelow},
		{"fullscreen wins over above", []xproto.Atom{10, 12}, nil, window.LayerFullscreen},
		{"dock", nil, []xproto.Atom{13}, window.LayerDock},
		{"unknown atoms", []xproto.Atom{99}, []xproto.Atom{98}, window.LayerNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.layerFor(tt.states, tt.types); got != tt.want {
				t.Errorf("layerFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContainsAtomIgnoresNone(t *testing.T) {
	if containsAtom([]xproto.Atom{0}, 0) {
		t.Error("atom None must never match")
	}
}

func TestListWindows(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("DISPLAY not set")
	}

	e, err := NewEnumerator()
	if err != nil {
		t.Skipf("X server not reachable: %v", err)
	}
	defer e.Close()

	if e.GetDisplayServer() != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", e.GetDisplayServer())
	}

	ctx := context.Background()
	displays, err := e.ListDisplays(ctx)
	if err != nil {
		t.Fatalf("ListDisplays() error: %v", err)
	}
	if len(displays) == 0 {
		t.Fatal("ListDisplays() returned no displays")
	}

	windows, err := e.ListWindows(ctx)
	if err != nil {
		t.Logf("ListWindows() error (window manager may not support EWMH): %v", err)
		return
	}
	for _, w := range windows {
		t.Logf("0x%x %-20s layer=%d stack=%d %dx%d%+d%+d",
			uint64(w.ID), w.AppName, w.Layer, w.StackOrder,
			w.Size.Width, w.Size.Height, w.Position.X, w.Position.Y)
	}
}

func TestEnumeratorInterface(t *testing.T) {
	var _ window.Enumerator = (*Enumerator)(nil)
}
