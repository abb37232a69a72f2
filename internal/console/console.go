// Package console owns terminal color capabilities for the process.
package console

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
)

var (
	mu       sync.RWMutex
	output   = termenv.NewOutput(os.Stdout)
	disabled = output.EnvNoColor()
)

// SetNoColor forces colored output off (or re-enables environment-based
// detection when false).
func SetNoColor(noColor bool) {
	mu.Lock()
	defer mu.Unlock()
	if noColor {
		disabled = true
		return
	}
	disabled = output.EnvNoColor()
}

// ColorEnabled reports whether styled output should be produced. It honors
// the NO_COLOR convention, explicit --no-color requests, and terminals
// without color support.
func ColorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	if disabled {
		return false
	}
	return output.ColorProfile() != termenv.Ascii
}
