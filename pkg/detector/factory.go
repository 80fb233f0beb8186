package detector

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/integrations/wayland"
	"github.com/timeguardian/timeguardian/pkg/integrations/x11"
	"github.com/timeguardian/timeguardian/pkg/window"
)

// New returns the first enumerator that can see the current session.
// Wayland compositors are preferred; XWayland and plain X11 sessions fall
// back to the X11 enumerator.
func New() (window.Enumerator, error) {
	server := DetectDisplayServer()

	if server == "wayland" {
		e := wayland.NewEnumerator()
		if e.IsAvailable() {
			log.Printf("Window enumerator initialized: wayland (%s)", e.Compositor())
			return e, nil
		}
		log.Printf("Wayland compositor %q has no window IPC, trying XWayland", e.Compositor())
	}

	if os.Getenv("DISPLAY") != "" {
		e, err := x11.NewEnumerator()
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize x11 enumerator")
		}
		if e.IsAvailable() {
			log.Printf("Window enumerator initialized: x11")
			return e, nil
		}
		e.Close()
	}

	return nil, errors.Wrapf(window.ErrNotAvailable, "display server %s", server)
}

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
