// Package logging builds the application logger. The TUI owns the terminal,
// so log output goes to a file in the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileName is the log file created inside the data directory
const FileName = "tick.log"

// Options holds configuration for the logger.
type Options struct {
	Level           string
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns default logger options.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		ReportTimestamp: true,
		Prefix:          "tick",
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	}), nil
}

// OpenFile opens (appending) the log file in dataDir and returns a logger
// writing to it. The caller closes the returned file.
func OpenFile(dataDir string, opts Options) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dataDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}
