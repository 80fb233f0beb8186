package wayland

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

// runner executes a command and returns its standard output
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Enumerator implements window.Enumerator for wlroots compositors that
// expose their window tree over IPC
type Enumerator struct {
	compositor string
	hasSwaymsg bool
	hasHyprctl bool
	run        runner
}

// NewEnumerator creates a new Wayland enumerator
func NewEnumerator() *Enumerator {
	e := &Enumerator{run: execRunner}
	e.hasSwaymsg = commandExists("swaymsg")
	e.hasHyprctl = commandExists("hyprctl")
	e.compositor = detectCompositor()
	return e
}

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// detectCompositor attempts to detect the running Wayland compositor
func detectCompositor() string {
	compositors := map[string]string{
		"sway":         "sway",
		"Hyprland":     "hyprland",
		"gnome-shell":  "gnome",
		"kwin_wayland": "kde",
	}

	for process, name := range compositors {
		if err := exec.Command("pgrep", "-x", process).Run(); err == nil {
			return name
		}
	}

	return "unknown"
}

// IsAvailable checks if the compositor exposes window geometry
func (e *Enumerator) IsAvailable() bool {
	switch e.compositor {
	case "sway":
		return e.hasSwaymsg
	case "hyprland":
		return e.hasHyprctl
	default:
		return false
	}
}

// GetDisplayServer returns "wayland"
func (e *Enumerator) GetDisplayServer() string {
	return "wayland"
}

// Compositor returns the detected compositor name
func (e *Enumerator) Compositor() string {
	return e.compositor
}

// ListWindows returns the windows on the visible workspaces
func (e *Enumerator) ListWindows(ctx context.Context) ([]visibility.Window, error) {
	switch e.compositor {
	case "sway":
		out, err := e.run(ctx, "swaymsg", "-r", "-t", "get_tree")
		if err != nil {
			return nil, errors.Wrap(err, "failed to execute swaymsg")
		}
		return parseSwayTree(out)
	case "hyprland":
		monitors, err := e.hyprlandMonitors(ctx)
		if err != nil {
			return nil, err
		}
		out, err := e.run(ctx, "hyprctl", "clients", "-j")
		if err != nil {
			return nil, errors.Wrap(err, "failed to execute hyprctl")
		}
		return parseHyprlandClients(out, activeWorkspaces(monitors))
	default:
		return nil, fmt.Errorf("unsupported wayland compositor: %s", e.compositor)
	}
}

// ListDisplays returns the logical bounds of every active output
func (e *Enumerator) ListDisplays(ctx context.Context) ([]visibility.Display, error) {
	switch e.compositor {
	case "sway":
		out, err := e.run(ctx, "swaymsg", "-r", "-t", "get_outputs")
		if err != nil {
			return nil, errors.Wrap(err, "failed to execute swaymsg")
		}
		return parseSwayOutputs(out)
	case "hyprland":
		monitors, err := e.hyprlandMonitors(ctx)
		if err != nil {
			return nil, err
		}
		return hyprlandDisplays(monitors), nil
	default:
		return nil, fmt.Errorf("unsupported wayland compositor: %s", e.compositor)
	}
}

func (e *Enumerator) hyprlandMonitors(ctx context.Context) ([]hyprMonitor, error) {
	out, err := e.run(ctx, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute hyprctl")
	}
	return parseHyprlandMonitors(out)
}

// Close cleans up resources
func (e *Enumerator) Close() error {
	return nil
}
