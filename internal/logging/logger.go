// Package logging wraps charmbracelet/log with the defaults mdsync uses
// for command output and long-running servers.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

//nolint:gochecknoglobals // process-wide default logger
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel maps a level name to a log level. Unknown names and the
// empty string mean info; "warning" is accepted for warn.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil || name == "" {
		return log.InfoLevel
	}
	return parsed
}

// New returns a stderr logger at level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing plain, untimed lines to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive returns an info logger for commands that keep running,
// such as serve and render --watch. Lines carry a timestamp when stderr
// is a terminal.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		Prefix:          "mdsync",
		ReportTimestamp: term.IsTerminal(int(os.Stderr.Fd())),
		TimeFormat:      time.TimeOnly,
	})
}

// Default returns the process-wide logger, creating an info logger on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(logger *log.Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
