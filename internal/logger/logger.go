// Package logger prints pipeline tracing to stderr when verbose mode
// is on. Retrieval and the batch engine use it to show which blocks
// were matched, ranked, and rewritten; the workflow logs its state
// transitions through it.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs; the default is os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// logf writes one level-tagged line when verbose mode is on.
func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, "["+level+"] "+format+"\n", args...)
}

// Debug prints a fine-grained trace message.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Section prints a header marking the start of a pipeline stage.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, "\n=== %s ===\n", name)
}
