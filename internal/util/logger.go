package util

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a leveled key/value logger writing to w (stderr when nil).
// verbose switches to debug level.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "bookrel",
	})
}

// Discard returns a logger that drops everything, for tests and quiet runs
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
