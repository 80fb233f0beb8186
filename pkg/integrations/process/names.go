package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/timeguardian/timeguardian/pkg/visibility"
)

// Resolver fills in application names for windows whose window system
// metadata carries none, using the owning process from /proc.
type Resolver struct {
	procRoot string

	mu    sync.Mutex
	names map[int]string
}

func NewResolver() *Resolver {
	return &Resolver{
		procRoot: "/proc",
		names:    make(map[int]string),
	}
}

// Fill sets AppName on every window that has a PID but no name.
func (r *Resolver) Fill(windows []visibility.Window) {
	for i := range windows {
		w := &windows[i]
		if w.AppName != "" || w.PID <= 0 {
			continue
		}
		w.AppName = r.Name(w.PID)
	}
}

// Name returns the process name for pid, or "" if it cannot be read.
func (r *Resolver) Name(pid int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.names[pid]; ok {
		return name
	}

	name := r.readName(pid)
	if name != "" {
		r.names[pid] = name
	}
	return name
}

// Forget drops cached names for processes that are no longer running.
func (r *Resolver) Forget(live []visibility.Window) {
	keep := make(map[int]bool, len(live))
	for _, w := range live {
		keep[w.PID] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for pid := range r.names {
		if !keep[pid] {
			delete(r.names, pid)
		}
	}
}

func (r *Resolver) readName(pid int) string {
	statData, err := os.ReadFile(filepath.Join(r.procRoot, strconv.Itoa(pid), "stat"))
	if err != nil {
		return ""
	}

	// comm is wrapped in parentheses and may itself contain spaces or ')'
	statStr := string(statData)
	startIdx := strings.Index(statStr, "(")
	endIdx := strings.LastIndex(statStr, ")")
	if startIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return statStr[startIdx+1 : endIdx]
}
