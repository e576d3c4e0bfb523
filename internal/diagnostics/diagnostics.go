// Package diagnostics is the process-wide stderr logger, grounded on the
// teacher's internal/interproc/logger.go: a package-level *log.Logger gated
// by a Verbose switch, with Warnf/Errorf always surfaced (the tool is a CI
// gate; losing marker-semantics warnings silently is worse than noise) and
// Debugf/Infof gated behind --verbose.
package diagnostics

import (
	"io"
	"log"
	"os"
)

var (
	// Logger is the global logger for discovery and resolver diagnostics.
	Logger *log.Logger

	// Verbose controls whether debug/info messages are printed.
	Verbose bool
)

func init() {
	Logger = log.New(os.Stderr, "", 0)
}

// SetVerbose enables or disables verbose logging at runtime (--verbose).
func SetVerbose(enabled bool) {
	Verbose = enabled
}

// SetOutput redirects logger output (useful for testing).
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Debugf prints a debug message if verbose mode is enabled.
func Debugf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[DEBUG] "+format, args...)
	}
}

// Infof prints an info message if verbose mode is enabled.
func Infof(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[INFO] "+format, args...)
	}
}

// Warnf always prints a warning, regardless of verbosity: dropped patterns,
// unknown languages, and orphaned changed files are recoverable but never
// silent.
func Warnf(format string, args ...interface{}) {
	Logger.Printf("[WARN] "+format, args...)
}

// Errorf always prints an error message regardless of verbose mode.
func Errorf(format string, args ...interface{}) {
	Logger.Printf("[ERROR] "+format, args...)
}
