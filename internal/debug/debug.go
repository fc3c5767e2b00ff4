// Package debug provides opt-in development logging for gemsuite. The TUI
// owns the terminal, so diagnostics go to a file that can be tailed from
// another shell.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

var (
	mu      sync.Mutex
	enabled bool
	logFile *os.File
	logPath string
)

// DefaultLogPath returns the standard location for the debug log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "gemsuite", "debug.log")
}

// Enable turns on debug logging to the given file, creating parent
// directories as needed. Calling Enable while already enabled is a no-op.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from config or the default XDG location.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = f
	logPath = path
	enabled = true

	writeLocked("=== gemsuite debug session started: %s ===", time.Now().Format(time.RFC3339))

	return nil
}

// Disable turns off debug logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	enabled = false
}

// IsEnabled reports whether debug logging is on.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// LogPath returns the active log file path, empty when disabled.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Log writes a formatted debug message if logging is enabled.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logFile == nil {
		return
	}
	writeLocked(format, args...)
}

// writeLocked appends one timestamped line; callers hold mu.
func writeLocked(format string, args ...any) {
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
	_, _ = logFile.WriteString(line)
	// Flush per line so the log can be tailed live.
	_ = logFile.Sync()
}

// Event logs a TUI event with component context.
func Event(component, event, details string) {
	Log("[%s] %s: %s", component, event, details)
}

// Error logs an error with component context.
func Error(component, context string, err error) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}
