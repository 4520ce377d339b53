/*
PURPOSE:
  Provides a structured logger for Tree Trial.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels, selectable from config or flags.
  - Text output on a terminal, JSON lines when piped (log shippers).
  - Logs go to stderr; stdout carries the experiment prompt and reports.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/cli, internal/output.
  - Core packages (tree, trial, analysis) do not log.

ERROR HANDLING:
  - Unknown level or format names fall back to info / auto.

IMPLEMENTATION RULES:
  - Use `log/slog`.
  - Terminal detection via github.com/mattn/go-isatty.

USAGE:
  output.Logger.Info("message", "key", "value")
  output.Configure("debug", "json", os.Stderr)

RELATED FILES:
  - All.
*/

package output

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Configure replaces Logger with one writing to w at the named level.
// format is "text", "json" or "auto" (text on a terminal, JSON otherwise).
func Configure(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if useJSON(format, w) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	Logger = slog.New(h)
	return Logger
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func useJSON(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "json":
		return true
	case "text":
		return false
	}
	return !IsTerminal(w)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
